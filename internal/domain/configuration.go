package domain

// Configuration is a complete plan: assumptions, holdings and goals
type Configuration struct {
	ReturnAssumptions       ReturnAssumptions        `yaml:"return_assumptions" json:"return_assumptions"`
	Engine                  *EngineOverrides         `yaml:"engine,omitempty" json:"engine,omitempty"`
	Assets                  []Asset                  `yaml:"assets,omitempty" json:"assets,omitempty"`
	RetirementContributions *RetirementContributions `yaml:"retirement_contributions,omitempty" json:"retirement_contributions,omitempty"`
	Goals                   []Goal                   `yaml:"goals" json:"goals"`
}

// AssetRegistry indexes the configured assets. Nil when the plan lists none.
func (c *Configuration) AssetRegistry() AssetRegistry {
	if len(c.Assets) == 0 {
		return nil
	}
	return NewAssetRegistry(c.Assets)
}

// FindGoal returns the goal with the given id
func (c *Configuration) FindGoal(id string) (*Goal, bool) {
	for i := range c.Goals {
		if c.Goals[i].ID == id {
			return &c.Goals[i], true
		}
	}
	return nil, false
}

// WithGoal returns a copy of the plan with the same-id goal replaced by goal.
// The receiver and its Goals slice are left untouched.
func (c *Configuration) WithGoal(goal Goal) *Configuration {
	next := *c
	next.Goals = make([]Goal, len(c.Goals))
	copy(next.Goals, c.Goals)
	for i := range next.Goals {
		if next.Goals[i].ID == goal.ID {
			next.Goals[i] = goal
		}
	}
	return &next
}

// EngineSettings resolves the plan's engine overrides against the defaults
func (c *Configuration) EngineSettings() EngineSettings {
	return c.Engine.Apply(DefaultEngineSettings())
}
