package config

import "fmt"

// BotDifficulty affects reaction time and decision quality
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

var botDifficultyNames = map[BotDifficulty]string{
	BotDifficultyEasy:   "easy",
	BotDifficultyNormal: "normal",
	BotDifficultyHard:   "hard",
}

func (d BotDifficulty) String() string {
	if name, ok := botDifficultyNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseBotDifficulty maps a difficulty name to its value.
func ParseBotDifficulty(name string) (BotDifficulty, error) {
	for d, n := range botDifficultyNames {
		if n == name {
			return d, nil
		}
	}
	return BotDifficultyNormal, fmt.Errorf("unknown bot difficulty %q", name)
}

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay int     `yaml:"reaction_delay"` // Ticks between steering decisions
	AimJitter     float64 `yaml:"aim_jitter"`     // Degrees of random error added to the chase heading
	BoostRange    float64 `yaml:"boost_range"`    // Distance to a target at which the bot boosts
	JumpChance    float64 `yaml:"jump_chance"`    // Probability per decision of jumping
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Difficulties map[BotDifficulty]BotDifficultyConfig `yaml:"difficulties"`
}

// Bot holds bot AI configuration
var Bot BotConfigData

func resetBot() {
	Bot = BotConfigData{
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				ReactionDelay: 15, // 0.5 second at 30 Hz
				AimJitter:     35,
				BoostRange:    150,
				JumpChance:    0.02,
			},
			BotDifficultyNormal: {
				ReactionDelay: 8,
				AimJitter:     15,
				BoostRange:    250,
				JumpChance:    0.05,
			},
			BotDifficultyHard: {
				ReactionDelay: 2, // Near-instant reaction
				AimJitter:     5,
				BoostRange:    350,
				JumpChance:    0.08,
			},
		},
	}
}
