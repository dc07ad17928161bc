package dataaggregator

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/railinfo/pkg/ctdf"
	"github.com/travigo/railinfo/pkg/dataaggregator/query"
	"github.com/travigo/railinfo/pkg/util"
	"golang.org/x/exp/slices"
)

const strikeDisruptionsLimit = 10

// DefaultStrikeKeywords is a heuristic list, matched ignoring case and accents
var DefaultStrikeKeywords = []string{
	"grève",
	"mouvement social",
	"strike",
	"préavis",
}

// StrikeClassifier decides whether an active high severity disruption is labour action
type StrikeClassifier interface {
	IsStrike(disruption ctdf.Disruption) bool
}

type KeywordClassifier struct {
	Keywords []string
}

func NewKeywordClassifier(keywords []string) *KeywordClassifier {
	if len(keywords) == 0 {
		keywords = DefaultStrikeKeywords
	}

	return &KeywordClassifier{Keywords: keywords}
}

func (k *KeywordClassifier) IsStrike(disruption ctdf.Disruption) bool {
	return util.ContainsAnyFold(disruption.Cause, k.Keywords) || util.ContainsAnyFold(disruption.Description, k.Keywords)
}

type strikeRuleEnv struct {
	Title       string `expr:"title"`
	Description string `expr:"description"`
	Cause       string `expr:"cause"`
	Category    string `expr:"category"`
	Severity    string `expr:"severity"`
	Effect      string `expr:"effect"`
	Level       int    `expr:"level"`
}

// ExprClassifier evaluates a configured boolean rule, eg.
// `hasKeyword(cause) || hasKeyword(description)`
type ExprClassifier struct {
	Rule     string
	Keywords []string

	program *vm.Program
}

func NewExprClassifier(rule string, keywords []string) (*ExprClassifier, error) {
	if len(keywords) == 0 {
		keywords = DefaultStrikeKeywords
	}

	hasKeyword := expr.Function(
		"hasKeyword",
		func(params ...any) (any, error) {
			text, _ := params[0].(string)
			return util.ContainsAnyFold(text, keywords), nil
		},
		new(func(string) bool),
	)

	program, err := expr.Compile(rule, expr.Env(strikeRuleEnv{}), expr.AsBool(), hasKeyword)
	if err != nil {
		return nil, fmt.Errorf("compile strike rule: %w", err)
	}

	return &ExprClassifier{
		Rule:     rule,
		Keywords: keywords,
		program:  program,
	}, nil
}

func (e *ExprClassifier) IsStrike(disruption ctdf.Disruption) bool {
	env := strikeRuleEnv{
		Title:       disruption.Title,
		Description: disruption.Description,
		Cause:       disruption.Cause,
		Category:    disruption.Category,
		Severity:    string(disruption.Severity),
		Effect:      disruption.Impact.Effect,
		Level:       disruption.Impact.Level,
	}

	output, err := expr.Run(e.program, env)
	if err != nil {
		log.Error().Err(err).Str("rule", e.Rule).Str("disruption", disruption.ID).Msg("Failed to evaluate strike rule")
		return false
	}

	isStrike, _ := output.(bool)
	return isStrike
}

// CurrentStrikes derives strikes from the most recent disruptions. Only active high severity
// disruptions the classifier accepts are kept.
func (a *Aggregator) CurrentStrikes(ctx context.Context) []ctdf.StrikeInfo {
	strikes, err := a.lookupStrikes(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to aggregate strikes")
		return []ctdf.StrikeInfo{}
	}

	return strikes
}

func (a *Aggregator) lookupStrikes(ctx context.Context) ([]ctdf.StrikeInfo, error) {
	return cachedLookup(ctx, a, query.StrikesCacheKey, a.TTL.Strikes, func(ctx context.Context) ([]ctdf.StrikeInfo, error) {
		disruptions, err := a.lookupDisruptions(ctx, query.Disruptions{Limit: strikeDisruptionsLimit})
		if err != nil {
			return nil, err
		}

		strikes := []ctdf.StrikeInfo{}
		for _, disruption := range disruptions {
			if disruption.Severity != ctdf.DisruptionSeverityHigh || !disruption.IsActive() {
				continue
			}
			if !a.StrikeClassifier.IsStrike(disruption) {
				continue
			}

			strike, err := newStrikeInfo(disruption)
			if err != nil {
				log.Error().Err(err).Str("disruption", disruption.ID).Msg("Failed to build strike")
				continue
			}

			strikes = append(strikes, strike)
		}

		return strikes, nil
	})
}

func newStrikeInfo(disruption ctdf.Disruption) (ctdf.StrikeInfo, error) {
	strike := ctdf.StrikeInfo{}
	if err := copier.Copy(&strike, &disruption); err != nil {
		return strike, err
	}

	// Cached disruptions are shared so never alias their slices
	strike.AffectedLines = slices.Clone(disruption.AffectedLines)
	strike.AffectedStations = slices.Clone(disruption.AffectedStations)

	strike.ExpectedImpact = ctdf.DefaultStrikeImpact
	strike.Alternatives = slices.Clone(ctdf.DefaultStrikeAlternatives)

	return strike, nil
}
