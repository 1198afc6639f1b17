package transform

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec     string
		wantName string
		wantErr  bool
	}{
		{"postpone_target:months=12", "postpone_target", false},
		{"set_target_date:date=2035-01-01", "set_target_date", false},
		{"set_step_up:percent=10", "set_step_up", false},
		{"set_step_up:percent=7.5%", "set_step_up", false},
		{"set_equity: percent = 40", "set_equity", false},
		{"set_inflation:percent=6", "set_inflation", false},
		{"scale_target:factor=1.25", "scale_target", false},
		{"toggle_retirement_contributions:include=true", "toggle_retirement_contributions", false},
		{"toggle_retirement_contributions:include=no", "toggle_retirement_contributions", false},
		{"toggle_retirement_contributions:include=maybe", "", true},
		{"postpone_target", "", true},
		{"postpone_target:", "", true},
		{"postpone_target:months=soon", "", true},
		{"postpone_target:months", "", true},
		{"set_target_date:date=01/01/2035", "", true},
		{"set_equity:value=40", "", true},
		{"scale_target:factor=big", "", true},
		{"delay_everything:months=1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tr.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, tr.Name())
			}
		})
	}
}

func TestTransformRegistry_ParsedValues(t *testing.T) {
	registry := NewTransformRegistry()

	tr, err := registry.ParseTransformSpec("set_step_up:percent=7.5%")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	stepUp, ok := tr.(*SetStepUp)
	if !ok {
		t.Fatalf("Expected *SetStepUp, got %T", tr)
	}
	if !stepUp.Percent.Equal(decimal.NewFromFloat(7.5)) {
		t.Errorf("Expected 7.5, got %s", stepUp.Percent)
	}

	tr, err = registry.ParseTransformSpec("postpone_target:months=18")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tr.(*PostponeTarget).Months != 18 {
		t.Errorf("Expected 18 months, got %d", tr.(*PostponeTarget).Months)
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	if len(names) != 7 {
		t.Fatalf("Expected 7 transforms, got %d: %v", len(names), names)
	}
	if names[0] != "postpone_target" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()
	registry.Register(Template{Name: "test_template", Description: "A test template"})

	if _, ok := registry.Get("test_template"); !ok {
		t.Fatal("Expected to find template")
	}
	if _, ok := registry.Get("TEST_TEMPLATE"); !ok {
		t.Fatal("Expected case-insensitive lookup to work")
	}
	if _, ok := registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	expected := []string{"aggressive", "conservative", "delay_1yr", "delay_1yr_step_up_5", "delay_3yr", "step_up_10", "step_up_5"}
	names := registry.List()
	if strings.Join(names, ",") != strings.Join(expected, ",") {
		t.Errorf("Expected %v, got %v", expected, names)
	}

	base := createTestGoal()
	for _, name := range names {
		tmpl, _ := registry.Get(name)
		if _, err := ApplyTemplate(base, tmpl); err != nil {
			t.Errorf("Template %s failed on a valid goal: %v", name, err)
		}
	}
}

func TestApplyTemplate_Combination(t *testing.T) {
	tmpl, ok := CreateBuiltInTemplates().Get("delay_1yr_step_up_5")
	if !ok {
		t.Fatal("Expected built-in template")
	}

	result, err := ApplyTemplate(createTestGoal(), tmpl)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.TargetDate.String() != "2037-06-30" {
		t.Errorf("Expected postponed date, got %s", result.TargetDate)
	}
	if !result.AnnualStepUpPercent.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected 5%% step-up, got %s", result.AnnualStepUpPercent)
	}
}

func TestParseTemplateList(t *testing.T) {
	got := ParseTemplateList(" delay_1yr, ,step_up_5 ")
	if len(got) != 2 || got[0] != "delay_1yr" || got[1] != "step_up_5" {
		t.Errorf("Unexpected list: %v", got)
	}
	if ParseTemplateList("") != nil {
		t.Error("Expected nil for empty list")
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())

	for _, want := range []string{"Timing:", "Contribution Growth:", "Allocation:", "Combinations:", "delay_1yr_step_up_5", "Usage:"} {
		if !strings.Contains(help, want) {
			t.Errorf("Expected help to contain %q", want)
		}
	}

	if GetTemplateHelp(NewTemplateRegistry()) != "No templates registered" {
		t.Error("Expected empty registry message")
	}
}
