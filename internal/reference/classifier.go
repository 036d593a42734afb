package reference

import (
	"strings"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/importer"
)

// Rule assigns a shelf and baking program to labels containing one of its
// keywords as whole words.
type Rule struct {
	Keywords []string
	Shelf    domain.ShelfCategory
	Program  string
}

// DefaultRules is ordered from the most specific to the most generic, so
// "pain au chocolat" is a pastry bread before "pain" is a bread.
var DefaultRules = []Rule{
	{
		Keywords: []string{"pain au chocolat", "pain aux raisins", "pain au lait", "chocolatine", "croissant", "brioche",
			"chausson", "suisse", "torsade", "viennoise", "kouign amann", "oranais"},
		Shelf:   domain.ShelfPastryBread,
		Program: "Viennoiseries",
	},
	{
		Keywords: []string{"sandwich", "panini", "croque", "quiche", "pizza", "wrap", "burger", "hot dog", "salade",
			"bagel", "club", "feuillete", "focaccia"},
		Shelf:   domain.ShelfSnacking,
		Program: "Snacking",
	},
	{
		Keywords: []string{"tarte", "tartelette", "eclair", "flan", "gateau", "millefeuille", "mille feuille", "chou",
			"choux", "chouquette", "macaron", "cookie", "muffin", "donut", "beignet", "financier", "madeleine",
			"paris brest", "fraisier", "opera", "entremet", "religieuse", "cannele", "brownie"},
		Shelf:   domain.ShelfPastry,
		Program: "Pâtisseries",
	},
	{
		Keywords: []string{"baguette", "flute", "ficelle", "tradition"},
		Shelf:    domain.ShelfBakery,
		Program:  "Baguettes",
	},
	{
		Keywords: []string{"pain", "boule", "campagne", "complet", "cereale", "seigle", "batard", "fougasse", "miche",
			"epi", "couronne", "nordique", "polka", "pave"},
		Shelf:   domain.ShelfBakery,
		Program: "Pains spéciaux",
	},
}

// Classification is the outcome of keyword matching.
type Classification struct {
	Shelf   domain.ShelfCategory
	Program string
}

// Classifier guesses where a product without reference entry belongs.
type Classifier struct {
	rules []compiledRule
}

type compiledRule struct {
	keywords []string
	result   Classification
}

func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr := compiledRule{result: Classification{Shelf: r.Shelf, Program: r.Program}}
		for _, kw := range r.Keywords {
			if k := wordKey(kw); k != "" {
				cr.keywords = append(cr.keywords, k)
			}
		}
		c.rules = append(c.rules, cr)
	}
	return c
}

func DefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules)
}

// Classify returns the first matching rule. Unmatched labels fall into the
// Other shelf with ok=false.
func (c *Classifier) Classify(label string) (Classification, bool) {
	key := " " + wordKey(label) + " "
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(key, " "+kw+" ") {
				return r.result, true
			}
		}
	}
	return Classification{Shelf: domain.ShelfOther, Program: domain.ShelfOther.Label()}, false
}

// wordKey folds a label into space separated singular words.
func wordKey(s string) string {
	words := strings.FieldsFunc(importer.FoldLabel(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for i, w := range words {
		if len(w) > 3 && strings.HasSuffix(w, "s") {
			words[i] = strings.TrimSuffix(w, "s")
		}
	}
	return strings.Join(words, " ")
}
