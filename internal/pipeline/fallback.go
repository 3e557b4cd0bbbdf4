package pipeline

import (
	"hash/fnv"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// defaultFallbacks are the built-in compliment templates used when AI
// generation fails. "your company" is substituted with the company
// name for short names.
var defaultFallbacks = []string{
	"I've been following your company's growth and I'm impressed by your innovative approach.",
	"Your company's mission really resonates with me, and I love what you're building.",
	"I've heard great things about your team and the work you're doing.",
	"Your company's recent achievements have caught my attention, and I'm excited about your vision.",
	"I appreciate the innovative solutions your company is developing.",
	"Your company's commitment to excellence is truly inspiring.",
	"I've been impressed by your company's market presence and growth trajectory.",
	"Your company's approach to solving industry challenges is remarkable.",
	"I admire your company's dedication to customer success.",
	"Your company's culture and values really stand out in the industry.",
}

type fallbackFile struct {
	Compliments []string `yaml:"compliments"`
}

// LoadFallbacks returns the compliment templates, reading them from
// the YAML file at path when given, otherwise the built-in set.
func LoadFallbacks(path string) ([]string, error) {
	if path == "" {
		return defaultFallbacks, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read fallback templates")
	}
	var f fallbackFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrap(err, "pipeline: parse fallback templates")
	}
	if len(f.Compliments) == 0 {
		return nil, eris.New("pipeline: fallback templates file is empty")
	}
	return f.Compliments, nil
}

// FallbackCompliment picks a template deterministically by company
// name and personalizes it when the name is short enough to read
// naturally in place of "your company".
func FallbackCompliment(templates []string, companyName string) (string, error) {
	if len(templates) == 0 {
		return "", eris.New("pipeline: no fallback templates available")
	}

	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(companyName)))
	text := templates[int(h.Sum32())%len(templates)]

	if companyName != "" && len(companyName) < 50 {
		text = strings.ReplaceAll(text, "your company", companyName)
		text = strings.ReplaceAll(text, "Your company", companyName)
	}
	return text, nil
}
