package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rreidmcg/guildfit/internal/engine"
	"github.com/rreidmcg/guildfit/internal/storage"
	"github.com/rreidmcg/guildfit/internal/ui"
)

var boardQuests = []engine.QuestType{
	engine.QuestHydration,
	engine.QuestSteps,
	engine.QuestProtein,
	engine.QuestSleep,
}

type boardModel struct {
	ctx    context.Context
	svc    *engine.Service
	userID string

	width  int
	height int

	user     *storage.User
	progress *storage.DailyProgress

	selected int
	lastLog  string
	loading  bool
	err      error
}

type loadedMsg struct {
	user     *storage.User
	progress *storage.DailyProgress
	err      error
}

type toggledMsg struct {
	quest engine.QuestType
	res   *engine.QuestToggleResult
	err   error
}

func newBoardModel(ctx context.Context, svc *engine.Service, userID string) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		userID:  userID,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		u, err := m.svc.UserRepo().Get(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		if u == nil {
			return loadedMsg{err: engine.ErrUserNotFound}
		}
		today := m.svc.TodayFor(u)
		d, err := m.svc.DailyRepo().Get(m.ctx, m.userID, today)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{user: u, progress: d}
	}
}

func (m boardModel) toggleCmd(quest engine.QuestType, completed bool) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.ToggleDailyQuest(m.ctx, m.userID, quest, completed)
		return toggledMsg{quest: quest, res: res, err: err}
	}
}

func (m boardModel) questDone(q engine.QuestType) bool {
	if m.progress == nil {
		return false
	}
	switch q {
	case engine.QuestHydration:
		return m.progress.Hydration
	case engine.QuestSteps:
		return m.progress.Steps
	case engine.QuestProtein:
		return m.progress.Protein
	case engine.QuestSleep:
		return m.progress.Sleep
	}
	return false
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.user = msg.user
		m.progress = msg.progress
		m.err = nil
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Error: " + msg.err.Error()
			return m, m.loadCmd()
		}
		switch {
		case msg.res.XPGranted:
			m.lastLog = fmt.Sprintf("All quests done! +%d XP %s", engine.AllQuestsBonusXP, ui.IconTrophy)
		case msg.res.FreezeGranted:
			m.lastLog = "Streak freeze earned " + ui.IconFreeze
		case msg.res.XPRevoked:
			m.lastLog = fmt.Sprintf("Quest bonus revoked (-%d XP)", engine.AllQuestsBonusXP)
		case msg.res.FreezeRevoked:
			m.lastLog = "Streak freeze revoked"
		default:
			m.lastLog = "Saved."
		}
		return m, m.loadCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(boardQuests)-1 {
				m.selected++
			}
			return m, nil
		case " ", "enter":
			quest := boardQuests[m.selected]
			return m, m.toggleCmd(quest, !m.questDone(quest))
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "1", "2", "3", "4":
			idx := int(msg.String()[0] - '1')
			quest := boardQuests[idx]
			m.selected = idx
			return m, m.toggleCmd(quest, !m.questDone(quest))
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.loading {
		return "Loading..."
	}
	if m.err != nil {
		return ui.Bad.Render(ui.IconError+" "+m.err.Error()) + "\n\nPress q to quit.\n"
	}

	var b strings.Builder

	b.WriteString(ui.Heading(ui.IconBolt, "Daily Quests — "+m.user.Name) + "\n\n")

	nextReq := engine.CharacterXPForLevel(m.user.Level + 1)
	prevReq := engine.CharacterXPForLevel(m.user.Level)
	b.WriteString(fmt.Sprintf("%s %d  %s %s  %s\n",
		ui.Key.Render("Level"), m.user.Level,
		ui.ProgressBar(m.user.Experience-prevReq, nextReq-prevReq, 24),
		ui.Muted.Render(fmt.Sprintf("%d/%d XP", m.user.Experience, nextReq)),
		streakBadge(m.user)))
	b.WriteString("\n")

	for i, q := range boardQuests {
		check := "[ ]"
		if m.questDone(q) {
			check = "[" + ui.Good.Render("✓") + "]"
		}
		line := fmt.Sprintf("%s %s %s", check, ui.QuestIcon(string(q)), string(q))
		if i == m.selected {
			line = ui.SelectedRow.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	done := 0
	if m.progress != nil {
		done = m.progress.QuestsDone()
	}
	b.WriteString("\n" + ui.Muted.Render(fmt.Sprintf("%d/4 complete — 2 keeps your streak, 4 earns +%d XP", done, engine.AllQuestsBonusXP)) + "\n")
	b.WriteString("\n" + ui.Muted.Render("space/enter toggle · 1-4 quick toggle · r refresh · q quit") + "\n")
	b.WriteString("\n" + m.lastLog + "\n")

	return ui.Panel.Render(b.String())
}

func streakBadge(u *storage.User) string {
	if u.CurrentStreak <= 0 {
		return ui.Muted.Render("no streak")
	}
	s := fmt.Sprintf("%s %d day", ui.IconFire, u.CurrentStreak)
	if u.CurrentStreak > 1 {
		s += "s"
	}
	if u.StreakFreezeCount > 0 {
		s += fmt.Sprintf("  %s ×%d", ui.IconFreeze, u.StreakFreezeCount)
	}
	return s
}
