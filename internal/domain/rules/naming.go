package rules

import (
	"fmt"
	"strings"

	m "laralint.dev/pkg/laralint/internal/model"
)

// NewControllerNamingRule checks controller class names: StudlyCase, a
// singular resource and the Controller suffix (ArticleController, not
// ArticlesController or article_controller).
func NewControllerNamingRule() m.Rule {
	return m.Rule{
		ID:       "controller-naming",
		Severity: m.SeverityWarning,
		Summary:  "Controllers are named <SingularResource>Controller",
		Bad:      `class ArticlesController extends Controller {}`,
		Good:     `class ArticleController extends Controller {}`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitController {
				return nil
			}

			var out []m.Violation

			for _, class := range unit.Classes {
				if !strings.HasSuffix(class.Name, "Controller") {
					out = append(out, violationAt(class.StartLine, 1,
						fmt.Sprintf("controller class %s is missing the Controller suffix", class.Name)))

					continue
				}

				resource := strings.TrimSuffix(class.Name, "Controller")
				if resource == "" {
					continue
				}

				if !isStudlyCase(resource) {
					out = append(out, violationAt(class.StartLine, 1,
						fmt.Sprintf("controller class %s is not StudlyCase", class.Name)))
				}

				if looksPlural(resource) {
					out = append(out, violationAt(class.StartLine, 1,
						fmt.Sprintf("controller class %s names a plural resource; use %sController", class.Name, singularHint(resource))))
				}
			}

			return out
		},
	}
}

// NewModelNamingRule checks model class names: singular StudlyCase (User,
// not Users).
func NewModelNamingRule() m.Rule {
	return m.Rule{
		ID:       "model-naming",
		Severity: m.SeverityWarning,
		Summary:  "Models are named as singular StudlyCase nouns",
		Bad:      `class Users extends Model {}`,
		Good:     `class User extends Model {}`,
		Check: func(unit m.SourceUnit) []m.Violation {
			if unit.Kind != m.UnitModel {
				return nil
			}

			var out []m.Violation

			for _, class := range unit.Classes {
				if !isStudlyCase(class.Name) {
					out = append(out, violationAt(class.StartLine, 1,
						fmt.Sprintf("model class %s is not StudlyCase", class.Name)))
				}

				if looksPlural(class.Name) {
					out = append(out, violationAt(class.StartLine, 1,
						fmt.Sprintf("model class %s is plural; models are singular", class.Name)))
				}
			}

			return out
		},
	}
}

// NewMethodNamingRule checks that methods are camelCase. PHP magic methods
// (__construct, __get, ...) are exempt.
func NewMethodNamingRule() m.Rule {
	return m.Rule{
		ID:       "method-naming",
		Severity: m.SeverityWarning,
		Summary:  "Methods are named in camelCase",
		Bad:      `public function get_all() {}`,
		Good:     `public function getAll() {}`,
		Check: func(unit m.SourceUnit) []m.Violation {
			var out []m.Violation

			for _, class := range unit.Classes {
				for _, method := range class.Methods {
					if strings.HasPrefix(method.Name, "__") {
						continue
					}

					if !isCamelCase(method.Name) {
						out = append(out, violationAt(method.StartLine, 1,
							fmt.Sprintf("method %s::%s is not camelCase", class.Name, method.Name)))
					}
				}
			}

			return out
		},
	}
}

// fatMethodMaxLines is the body length past which a method is assumed to do
// more than one thing.
const fatMethodMaxLines = 40

// NewFatMethodRule flags methods whose bodies exceed fatMethodMaxLines,
// the single-responsibility smell the style guide opens with.
func NewFatMethodRule() m.Rule {
	return m.Rule{
		ID:       "fat-method",
		Severity: m.SeverityWarning,
		Summary:  "A method should do just one thing; split long methods",
		Bad: `public function getFullNameAttribute()
{
    // 60 lines of branching and formatting
}`,
		Good: `public function getFullNameAttribute()
{
    return $this->isVerifiedClient() ? $this->getFullNameLong() : $this->getFullNameShort();
}`,
		Check: func(unit m.SourceUnit) []m.Violation {
			var out []m.Violation

			for _, class := range unit.Classes {
				for _, method := range class.Methods {
					length := method.EndLine - method.StartLine
					if length > fatMethodMaxLines {
						out = append(out, violationAt(method.StartLine, 1,
							fmt.Sprintf("method %s::%s spans %d lines; split it into smaller methods", class.Name, method.Name, length)))
					}
				}
			}

			return out
		},
	}
}

// singularHint chops the trailing 's' to suggest a singular form. Good
// enough for a lint message; no inflector needed.
func singularHint(word string) string {
	return strings.TrimSuffix(word, "s")
}
