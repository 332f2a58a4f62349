package devservice

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/stolasapp/todo/internal/todos"
)

// Content generation constants.
const (
	maxTitleLen          = 50
	maxDescriptionLen    = 255
	minWords             = 4
	maxExtraWords        = 8 // 4-11 words total
	minTasks             = 2
	maxExtraTasks        = 3 // 2-4 tasks total
	completeProbability  = 0.3
	plainTextProbability = 0.4 // the rest use some markdown
)

func generateTodo(faker *gofakeit.Faker) todos.Input {
	return todos.Input{
		Title:       generateTitle(faker),
		Description: generateDescription(faker),
		Priority:    int64(faker.IntRange(1, 5)),
		Complete:    faker.Float64() < completeProbability,
	}
}

func generateTitle(faker *gofakeit.Faker) string {
	patterns := []func(*gofakeit.Faker) string{
		func(f *gofakeit.Faker) string { return fmt.Sprintf("%s the %s", capitalize(f.Verb()), f.Noun()) },
		func(f *gofakeit.Faker) string { return fmt.Sprintf("%s %s %s", capitalize(f.Verb()), f.Adjective(), f.Noun()) },
		func(f *gofakeit.Faker) string { return "Call " + f.FirstName() },
		func(f *gofakeit.Faker) string { return "Buy " + f.Noun() },
	}
	title := patterns[faker.IntN(len(patterns))](faker)
	return truncate(title, maxTitleLen)
}

// generateDescription creates a plain sentence or a short markdown snippet.
func generateDescription(faker *gofakeit.Faker) string {
	sentence := faker.Sentence(minWords + faker.IntN(maxExtraWords))
	if faker.Float64() < plainTextProbability {
		return truncate(sentence, maxDescriptionLen)
	}

	var builder strings.Builder
	switch faker.IntN(3) { //nolint:mnd // one case per style
	case 0:
		builder.WriteString("**")
		builder.WriteString(capitalize(faker.Adjective()))
		builder.WriteString(":** ")
		builder.WriteString(sentence)
	case 1:
		builder.WriteString(sentence)
		builder.WriteString("\n\n")
		for i := range minTasks + faker.IntN(maxExtraTasks) {
			mark := " "
			if i%2 == 1 {
				mark = "x"
			}
			fmt.Fprintf(&builder, "- [%s] %s %s\n", mark, faker.Verb(), faker.Noun())
		}
	default:
		builder.WriteString(sentence)
		builder.WriteString(" See ")
		builder.WriteString(faker.URL())
	}
	return truncate(strings.TrimSpace(builder.String()), maxDescriptionLen)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// truncate shortens s to at most n runes, cutting at a word boundary where
// possible.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)[:n]
	if idx := strings.LastIndexFunc(string(runes), unicode.IsSpace); idx > 0 {
		return strings.TrimSpace(string(runes)[:idx])
	}
	return string(runes)
}
