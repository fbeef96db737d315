// Package classify tags incoming queries with intents using keyword lists.
// Classification is deterministic and side-effect free: every intent test is
// an independent case-insensitive substring match, and a query that matches
// nothing is tagged generic. Keyword lists are configuration data — callers
// may override any of the compiled-in defaults.
package classify

import "strings"

// Intent is a derived classification tag for an incoming query.
type Intent string

// Intent values. A query may carry several at once; the orchestrator's
// fixed precedence order resolves overlaps.
const (
	IntentPreferenceStatement Intent = "preference_statement"
	IntentPreferenceQuestion  Intent = "preference_question"
	IntentRealtime            Intent = "realtime"
	IntentKnowledge           Intent = "knowledge"
	IntentPersonalMemory      Intent = "personal_memory"
	IntentGeneric             Intent = "generic"
)

// IntentSet is the set of intents matched by a single query.
type IntentSet map[Intent]struct{}

// Has reports whether the set contains the given intent.
func (s IntentSet) Has(intent Intent) bool {
	_, ok := s[intent]
	return ok
}

// Keywords groups the keyword lists that drive classification.
// A zero-value field falls back to the compiled-in default list.
type Keywords struct {
	// Realtime triggers the realtime intent on any single match.
	Realtime []string

	// Knowledge triggers the knowledge intent on any single match.
	Knowledge []string

	// RememberCues and LikeCues must BOTH match for the
	// preference_statement intent. Two independent gates, per the
	// "remember that I like X" phrasing the intent targets.
	RememberCues []string
	LikeCues     []string

	// PreferenceQuestions triggers preference_question on any match.
	PreferenceQuestions []string

	// PersonalMemory triggers personal_memory on any match.
	PersonalMemory []string
}

// Classifier tags queries with intents. Safe for concurrent use once built.
type Classifier struct {
	kw Keywords
}

// New creates a Classifier. Empty keyword lists in kw are replaced with the
// defaults; all lists are lowercased once at construction.
func New(kw Keywords) *Classifier {
	defaults := DefaultKeywords()
	if len(kw.Realtime) == 0 {
		kw.Realtime = defaults.Realtime
	}
	if len(kw.Knowledge) == 0 {
		kw.Knowledge = defaults.Knowledge
	}
	if len(kw.RememberCues) == 0 {
		kw.RememberCues = defaults.RememberCues
	}
	if len(kw.LikeCues) == 0 {
		kw.LikeCues = defaults.LikeCues
	}
	if len(kw.PreferenceQuestions) == 0 {
		kw.PreferenceQuestions = defaults.PreferenceQuestions
	}
	if len(kw.PersonalMemory) == 0 {
		kw.PersonalMemory = defaults.PersonalMemory
	}

	kw.Realtime = lowerAll(kw.Realtime)
	kw.Knowledge = lowerAll(kw.Knowledge)
	kw.RememberCues = lowerAll(kw.RememberCues)
	kw.LikeCues = lowerAll(kw.LikeCues)
	kw.PreferenceQuestions = lowerAll(kw.PreferenceQuestions)
	kw.PersonalMemory = lowerAll(kw.PersonalMemory)

	return &Classifier{kw: kw}
}

// Classify computes the intent set for a raw query. It never fails: an
// empty or unmatched query yields {generic}.
func (c *Classifier) Classify(query string) IntentSet {
	set := make(IntentSet)
	lower := strings.ToLower(query)

	if containsAny(lower, c.kw.RememberCues) && containsAny(lower, c.kw.LikeCues) {
		set[IntentPreferenceStatement] = struct{}{}
	}
	if containsAny(lower, c.kw.PreferenceQuestions) {
		set[IntentPreferenceQuestion] = struct{}{}
	}
	if containsAny(lower, c.kw.Realtime) {
		set[IntentRealtime] = struct{}{}
	}
	if containsAny(lower, c.kw.Knowledge) {
		set[IntentKnowledge] = struct{}{}
	}
	if containsAny(lower, c.kw.PersonalMemory) {
		set[IntentPersonalMemory] = struct{}{}
	}

	if len(set) == 0 {
		set[IntentGeneric] = struct{}{}
	}
	return set
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
