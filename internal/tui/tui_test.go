package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/transform"
)

func testConfig() *domain.Configuration {
	return &domain.Configuration{
		ReturnAssumptions: domain.ReturnAssumptions{
			EquityReturnPercent: decimal.NewFromInt(12),
			DebtReturnPercent:   decimal.NewFromInt(7),
			EPFReturnPercent:    decimal.NewFromFloat(8.25),
			NPSReturnPercent:    decimal.NewFromInt(10),
		},
		Assets: []domain.Asset{
			{ID: "nifty", Name: "Nifty 50", Category: domain.AssetIndexFund, CurrentValue: decimal.NewFromInt(500000)},
		},
		Goals: []domain.Goal{
			{
				ID:                   "car",
				Name:                 "New car",
				TargetAmount:         decimal.NewFromInt(800000),
				TargetDate:           domain.NewDate(2027, time.January, 1),
				InflationRatePercent: decimal.NewFromInt(6),
				GoalType:             domain.GoalTypeOneTime,
				LinkedAssets:         []domain.LinkedAsset{{AssetID: "nifty", PledgedAmount: decimal.NewFromInt(100000)}},
			},
			{
				ID:                   "education",
				Name:                 "Child education",
				TargetAmount:         decimal.NewFromInt(2500000),
				TargetDate:           domain.NewDate(2035, time.January, 1),
				InflationRatePercent: decimal.NewFromInt(6),
				GoalType:             domain.GoalTypeOneTime,
				InitialEquityPercent: decimal.NewFromInt(60),
			},
		},
	}
}

func testEngine() *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	engine.Clock = func() time.Time { return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) }
	return engine
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	require.True(t, ok)
	return model, cmd
}

// sendAndRun delivers msg and then the message its command produces
func sendAndRun(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, cmd := send(t, m, msg)
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func loadedModel(t *testing.T) Model {
	t.Helper()
	m := NewModel("plan.yaml", testEngine())
	m = sendAndRun(t, m, ConfigLoadedMsg{Config: testConfig()})
	require.NoError(t, m.Err())
	return m
}

func openGoal(t *testing.T, m Model, downs int) Model {
	t.Helper()
	for i := 0; i < downs; i++ {
		m, _ = send(t, m, runes("j"))
	}
	m = sendAndRun(t, m, enter)
	require.Equal(t, SceneDetail, m.Scene())
	return m
}

func TestLoadAndProject(t *testing.T) {
	m := NewModel("plan.yaml", testEngine())
	assert.Contains(t, m.View(), "Loading plan")

	m, cmd := send(t, m, ConfigLoadedMsg{Config: testConfig()})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Projecting goals")

	msg := cmd()
	require.IsType(t, ProjectionsCompleteMsg{}, msg)
	m, _ = send(t, m, msg)

	assert.Equal(t, SceneGoals, m.Scene())
	require.Len(t, m.Results(), 2)
	assert.Equal(t, domain.CategoryShort, m.Results()[0].Category)
	assert.Equal(t, domain.CategoryLong, m.Results()[1].Category)

	view := m.View()
	assert.Contains(t, view, "New car")
	assert.Contains(t, view, "Child education")
	assert.Contains(t, view, "Total monthly SIP")
}

func TestLoadConfigError(t *testing.T) {
	m := NewModel("does-not-exist.yaml", testEngine())
	msg := m.Init()()
	require.IsType(t, ErrorMsg{}, msg)

	m, _ = send(t, m, msg)
	assert.Error(t, m.Err())
	assert.Contains(t, m.View(), "Error:")

	// Any key dismisses the error
	m, _ = send(t, m, runes("x"))
	assert.NoError(t, m.Err())
}

func TestGoalNavigation(t *testing.T) {
	m := loadedModel(t)

	// Moving past either end stays in range
	m, _ = send(t, m, runes("k"))
	m, _ = send(t, m, runes("G"))
	m, _ = send(t, m, runes("j"))

	m, cmd := send(t, m, enter)
	require.NotNil(t, cmd)
	assert.Equal(t, GoalSelectedMsg{GoalID: "education"}, cmd())

	m, _ = send(t, m, cmd())
	assert.Equal(t, SceneDetail, m.Scene())

	view := m.View()
	assert.Contains(t, view, "Child education")
	assert.Contains(t, view, "Glide path")
	assert.Contains(t, view, "60% equity")
	assert.Contains(t, view, "Projected SIP corpus")

	m, _ = send(t, m, esc)
	assert.Equal(t, SceneGoals, m.Scene())
}

func TestShortGoalHasNoGlidePath(t *testing.T) {
	m := openGoal(t, loadedModel(t), 0)
	view := m.View()
	assert.Contains(t, view, "New car")
	assert.NotContains(t, view, "Glide path")
}

func TestEditStepUp(t *testing.T) {
	m := openGoal(t, loadedModel(t), 1)
	before := m.Results()[1].RequiredMonthlyContribution

	m, _ = send(t, m, runes("s"))
	assert.Contains(t, m.View(), "Annual step-up %")

	// q is typed into the prompt rather than quitting
	m, _ = send(t, m, runes("q"))
	assert.Equal(t, SceneDetail, m.Scene())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	m, _ = send(t, m, runes("10"))
	m, cmd := send(t, m, enter)
	require.NotNil(t, cmd)

	edited, ok := cmd().(GoalEditedMsg)
	require.True(t, ok)
	assert.Equal(t, "education", edited.GoalID)
	require.IsType(t, &transform.SetStepUp{}, edited.Transform)

	m = sendAndRun(t, m, edited)

	goal, ok := m.Config().FindGoal("education")
	require.True(t, ok)
	assert.True(t, goal.AnnualStepUpPercent.Equal(decimal.NewFromInt(10)))

	after := m.Results()[1].RequiredMonthlyContribution
	assert.True(t, after.LessThan(before), "step-up should lower the starting SIP: before %s after %s", before, after)
	assert.Equal(t, domain.MethodStepUpTapering, m.Results()[1].Method)

	// The trend arrow shows the SIP went down
	assert.Contains(t, m.View(), "▼")

	// The car goal is untouched
	assert.True(t, m.Results()[0].RequiredMonthlyContribution.IsPositive())
}

func TestEditLeavesInFlightPlanAlone(t *testing.T) {
	m := openGoal(t, loadedModel(t), 1)
	before := m.Config()

	// A comparison started before the edit keeps reading the plan it was given
	_, pending := send(t, m, CompareRequestedMsg{GoalID: "education"})
	require.NotNil(t, pending)

	m = sendAndRun(t, m, GoalEditedMsg{
		GoalID:    "education",
		Transform: &transform.SetEquity{Percent: decimal.NewFromInt(90)},
	})

	old, ok := before.FindGoal("education")
	require.True(t, ok)
	assert.True(t, old.InitialEquityPercent.Equal(decimal.NewFromInt(60)), "edit must not write through to the previous plan")

	edited, ok := m.Config().FindGoal("education")
	require.True(t, ok)
	assert.True(t, edited.InitialEquityPercent.Equal(decimal.NewFromInt(90)))
	assert.NotSame(t, before, m.Config())

	done, ok := pending().(ComparisonCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, "60", done.Comparison.BaseResult.InitialEquityPercent)
}

func TestNarrowDetailUsesCompactMetrics(t *testing.T) {
	m := openGoal(t, loadedModel(t), 1)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 50, Height: 40})

	view := m.View()
	assert.Contains(t, view, "Monthly SIP:")
	assert.Contains(t, view, "Gap to fund:")

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	assert.NotContains(t, m.View(), "Monthly SIP:")
}

func TestEditEquity_InvalidInput(t *testing.T) {
	m := openGoal(t, loadedModel(t), 1)

	m, _ = send(t, m, runes("e"))
	m, _ = send(t, m, runes("150"))
	m, cmd := send(t, m, enter)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "enter apply")

	m, _ = send(t, m, esc)
	assert.Equal(t, SceneDetail, m.Scene())
	assert.NotContains(t, m.View(), "enter apply")

	goal, _ := m.Config().FindGoal("education")
	assert.True(t, goal.InitialEquityPercent.Equal(decimal.NewFromInt(60)))
}

func TestEditEquity_NotANumber(t *testing.T) {
	m := openGoal(t, loadedModel(t), 1)

	m, _ = send(t, m, runes("e"))
	m, _ = send(t, m, runes("abc"))
	m, cmd := send(t, m, enter)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "is not a number")
}

func TestCompareScene(t *testing.T) {
	m := openGoal(t, loadedModel(t), 1)

	m, cmd := send(t, m, runes("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, CompareRequestedMsg{GoalID: "education"}, cmd())

	m, cmd = send(t, m, cmd())
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Comparing")

	m, _ = send(t, m, cmd())
	assert.Equal(t, SceneCompare, m.Scene())
	require.NotNil(t, m.compareModel.Comparison())
	assert.Len(t, m.compareModel.Comparison().AlternativeResults, 7)
	assert.Contains(t, m.View(), "What-if: Child education")

	m, _ = send(t, m, esc)
	assert.Equal(t, SceneDetail, m.Scene())
}

func TestHelpAndQuit(t *testing.T) {
	m := loadedModel(t)

	m, _ = send(t, m, runes("?"))
	assert.Equal(t, SceneHelp, m.Scene())
	assert.Contains(t, m.View(), "KEYBOARD SHORTCUTS")

	m, _ = send(t, m, esc)
	assert.Equal(t, SceneGoals, m.Scene())

	_, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestWindowResize(t *testing.T) {
	m := loadedModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	assert.Equal(t, 140, m.width)
	assert.Equal(t, 40, m.height)
}
