// internal/service/generator_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/unclebandit/campaign-intake/internal/llm"
	"github.com/unclebandit/campaign-intake/internal/metrics"
	"github.com/unclebandit/campaign-intake/internal/model"
	"github.com/unclebandit/campaign-intake/internal/repository"
)

// StaleAfter is how long a generated batch may wait before the campaign is
// sent back to ready for regeneration.
const StaleAfter = 24 * time.Hour

var toneByTarget = map[string][]string{
	"awareness":  {"informative", "friendly", "soft promotional"},
	"growth":     {"fomo", "promotional", "festive"},
	"engagement": {"friendly", "interactive", "fun"},
	"conversion": {"promotional", "fomo", "urgent"},
	"other":      {"friendly", "promotional"},
}

var defaultTones = []string{"friendly", "promotional"}

var (
	adjacentStrings = regexp.MustCompile(`"\s*"`)
	trailingComma   = regexp.MustCompile(`,\s*]$`)
)

type GeneratorService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	LLM          llm.Generator
	Now          func() time.Time
	// Pick returns a number in [0, n); defaults to math/rand.
	Pick func(n int) int
}

func (s *GeneratorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *GeneratorService) pick(n int) int {
	if s.Pick != nil {
		return s.Pick(n)
	}
	return rand.IntN(n)
}

// PickTone chooses a writing tone for a campaign goal. Unknown goals fall
// back to friendly/promotional.
func PickTone(target string, pick func(n int) int) string {
	tones, ok := toneByTarget[strings.ToLower(strings.TrimSpace(target))]
	if !ok {
		tones = defaultTones
	}
	return tones[pick(len(tones))]
}

// BuildPrompt asks for a batch of WhatsApp messages as a JSON array.
func BuildPrompt(description, target, businessName, tone string) string {
	var b strings.Builder
	b.WriteString("You are a WhatsApp marketing assistant creating engaging campaign messages.\n\n")
	fmt.Fprintf(&b, "  Business Name: %s\n", businessName)
	fmt.Fprintf(&b, "  Description: %s\n", description)
	fmt.Fprintf(&b, "  Goal: %s\n", target)
	fmt.Fprintf(&b, "  Tone Style: %s\n\n", tone)
	b.WriteString("  Instructions:\n")
	b.WriteString("- Generate 15 unique WhatsApp messages that match the business goal and tone.\n")
	b.WriteString("- Each message must be under 250 characters.\n")
	b.WriteString("- Include CTAs like 'Visit us', 'Try now', 'DM us', 'Check this out'.\n")
	b.WriteString("- Include a placeholder link like https://missh.space.\n")
	b.WriteString("- Return the result as a **JSON array of strings**.\n\n")
	b.WriteString("  Output Format Example:\n")
	b.WriteString("  [\"Message 1\", \"Message 2\", ..., \"Message 15\"]\n\n")
	b.WriteString("  Only return the JSON list. No explanation or formatting.")
	return b.String()
}

// ParseMessages pulls the message list out of a model answer. Models often
// answer with a Python-style list or drop the commas between entries; when
// the answer does not decode as is, it is requoted and retried, then retried
// once more with the commas put back.
// Entries are trimmed, blanks dropped and duplicates removed keeping the
// first occurrence. Anything that is not a bracketed list yields nil.
func ParseMessages(raw string) []string {
	content := strings.TrimSpace(raw)
	if !strings.HasPrefix(content, "[") || !strings.HasSuffix(content, "]") {
		return nil
	}

	requoted := requoteSingle(content)
	attempts := []string{
		content,
		requoted,
		trailingComma.ReplaceAllString(adjacentStrings.ReplaceAllString(requoted, `", "`), "]"),
	}

	var items []any
	var err error
	for _, attempt := range attempts {
		items = nil
		if err = json.Unmarshal([]byte(attempt), &items); err == nil {
			break
		}
	}
	if err != nil {
		log.Println("⚠️ Failed to parse fixed list:", err)
		return nil
	}

	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// requoteSingle rewrites 'single-quoted' string literals as JSON strings.
// Double-quoted strings pass through untouched.
func requoteSingle(s string) string {
	var b strings.Builder
	var quote rune
	escaped := false
	for _, r := range s {
		switch {
		case quote == 0:
			switch r {
			case '\'':
				quote = r
				b.WriteRune('"')
			case '"':
				quote = r
				b.WriteRune(r)
			default:
				b.WriteRune(r)
			}
		case quote == '"':
			b.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				quote = 0
			}
		case escaped:
			escaped = false
			if r != '\'' {
				b.WriteRune('\\')
			}
			b.WriteRune(r)
		case r == '\\':
			escaped = true
		case r == '\'':
			quote = 0
			b.WriteRune('"')
		case r == '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ReadyCampaigns lists campaigns waiting for messages.
func (s *GeneratorService) ReadyCampaigns(ctx context.Context) ([]*model.Campaign, error) {
	return s.CampaignRepo.ListByStatus(ctx, model.StatusReady)
}

// Generate asks the model for messages for one campaign and stores them,
// moving it to ready-to-send. An empty batch leaves the campaign untouched.
func (s *GeneratorService) Generate(ctx context.Context, c *model.Campaign) ([]string, error) {
	target := c.Target
	if target == "" {
		target = "Awareness"
	}
	name := c.BusinessName
	if name == "" {
		name = "Your Brand"
	}

	prompt := BuildPrompt(c.Description, target, name, PickTone(target, s.pick))
	raw, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate messages: %w", err)
	}
	log.Println("🔎 Raw response from model:", raw)

	messages := ParseMessages(raw)
	if len(messages) == 0 {
		return nil, nil
	}

	if err := s.CampaignRepo.UpdateMessages(ctx, c.ID, messages, s.now()); err != nil {
		return nil, fmt.Errorf("store messages: %w", err)
	}
	metrics.RecordGenerated(len(messages))
	return messages, nil
}

// AdvanceStale returns ready-to-send campaigns whose batch is older than
// StaleAfter to ready. Per-campaign failures are logged and skipped.
func (s *GeneratorService) AdvanceStale(ctx context.Context) (int, error) {
	campaigns, err := s.CampaignRepo.ListByStatus(ctx, model.StatusReadyToSend)
	if err != nil {
		return 0, fmt.Errorf("list ready-to-send campaigns: %w", err)
	}

	now := s.now()
	advanced := 0
	for _, c := range campaigns {
		if c.GeneratedAt == "" {
			continue
		}
		generated, err := parseGeneratedAt(c.GeneratedAt)
		if err != nil {
			log.Printf("⚠️ Bad generated_at on campaign %s: %v", c.ID, err)
			continue
		}
		if now.Sub(generated) <= StaleAfter {
			continue
		}
		if err := s.CampaignRepo.UpdateStatus(ctx, c.ID, model.StatusReady); err != nil {
			log.Printf("⚠️ Failed to advance campaign %s: %v", c.ID, err)
			continue
		}
		log.Printf("⏩ Auto-updated campaign '%s' to '%s'", c.BusinessName, model.StatusReady)
		advanced++
	}
	return advanced, nil
}

// parseGeneratedAt accepts RFC3339 and zone-less ISO timestamps, the latter
// read as UTC.
func parseGeneratedAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.UTC)
}

// CampaignLine formats one entry of the interactive campaign menu.
func CampaignLine(i int, c *model.Campaign) string {
	name := c.BusinessName
	if name == "" {
		name = "Unnamed"
	}
	desc := []rune(c.Description)
	if len(desc) > 40 {
		desc = desc[:40]
	}
	return fmt.Sprintf("%d. %s - %s...  (ID: %s)", i+1, name, string(desc), c.ID)
}

// SelectCampaign resolves a 1-based menu choice.
func SelectCampaign(campaigns []*model.Campaign, input string) (*model.Campaign, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return nil, fmt.Errorf("please enter a valid number")
	}
	if n < 1 || n > len(campaigns) {
		return nil, fmt.Errorf("invalid choice %d", n)
	}
	return campaigns[n-1], nil
}
