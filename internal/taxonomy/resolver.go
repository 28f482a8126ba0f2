package taxonomy

import (
	"strings"

	"github.com/CVDExInfo/finplan/internal/keyutils"
	"github.com/CVDExInfo/finplan/internal/logging"
	"github.com/CVDExInfo/finplan/internal/models"
)

// roleAliases maps well-known human-readable role and category phrases
// (normalized) to canonical rubro ids. It complements the index for
// references that carry only a free-text description. Changing it changes
// classification behavior and must be versioned alongside the taxonomy
// catalog.
var roleAliases = map[string]string{
	"service-delivery-manager": "MOD-SDM",
	"sdm":                      "MOD-SDM",
	"project-manager":          "MOD-LEAD",
	"gerente-de-proyecto":      "MOD-LEAD",
	"pm":                       "MOD-LEAD",
	"ingeniero-lider":          "MOD-LEAD",
	"lead-engineer":            "MOD-LEAD",
	"ingeniero":                "MOD-ING",
	"contratista":              "MOD-CONT",
	"horas-extra":              "MOD-OT",
	"overtime":                 "MOD-OT",
	"mano-de-obra":             models.RubroCodeLabor,
	"mano-de-obra-directa":     models.RubroCodeLabor,
}

// Resolver resolves raw rubro references against an immutable Index. It is
// safe for concurrent use as long as each caller supplies its own Cache.
type Resolver struct {
	index   *Index
	aliases map[string]string
	logger  logging.Logger
}

// NewResolver creates a Resolver over the given index using the built-in
// alias table.
func NewResolver(index *Index, logger logging.Logger) *Resolver {
	return NewResolverWithAliases(index, nil, logger)
}

// NewResolverWithAliases creates a Resolver whose alias table is the built-in
// one merged with the given overrides (override keys are normalized; an
// override wins on collision).
func NewResolverWithAliases(index *Index, overrides map[string]string, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.GetLogger()
	}

	aliases := make(map[string]string, len(roleAliases)+len(overrides))
	for phrase, rubroID := range roleAliases {
		aliases[phrase] = rubroID
	}
	for phrase, rubroID := range overrides {
		if key := keyutils.NormalizeKey(phrase); key != "" {
			aliases[key] = rubroID
		}
	}

	return &Resolver{index: index, aliases: aliases, logger: logger}
}

// Lookup resolves a rubro reference to its best-matching taxonomy entry, or
// nil when nothing matches. Resolution short-circuits at the first success:
//
//  1. cache hit (a cached nil counts),
//  2. exact normalized match on each populated field, id-like fields first,
//  3. alias table against the normalized description fields,
//  4. canonical-labor synthetic fallback,
//  5. tolerant substring match over the index keys in sorted order.
//
// Every outcome, including nil, is written to the cache before returning, so
// equivalent references within one run resolve exactly once. Lookup never
// panics; absence of data is always represented as nil.
func (r *Resolver) Lookup(ref models.RubroReference, cache *Cache) *models.TaxonomyEntry {
	key := CacheKey(ref)
	if entry, ok := cache.Get(key); ok {
		return entry
	}

	entry := r.resolve(ref)
	cache.Put(key, entry)
	return entry
}

func (r *Resolver) resolve(ref models.RubroReference) *models.TaxonomyEntry {
	if ref.IsEmpty() {
		return nil
	}

	fields := append(ref.IDFields(), ref.DescriptionFields()...)

	// Exact match, id-like fields first.
	for _, raw := range fields {
		if key := keyutils.NormalizeKey(raw); key != "" {
			if entry, ok := r.index.Get(key); ok {
				return entry
			}
		}
	}

	// Alias table against the description fields.
	for _, raw := range ref.DescriptionFields() {
		rubroID, ok := r.aliases[keyutils.NormalizeKey(raw)]
		if !ok {
			continue
		}
		if entry, ok := r.index.Get(keyutils.NormalizeKey(rubroID)); ok {
			r.logger.WithFields(
				logging.Field{Key: logging.FieldKey, Value: raw},
				logging.Field{Key: logging.FieldRubroID, Value: rubroID},
			).Debug("Reference resolved through alias table")
			return entry
		}
	}

	// Canonical-labor short-circuit. Only reached when the index holds no
	// real entry for the key, so real taxonomy data always wins.
	for _, raw := range fields {
		if key := keyutils.NormalizeKey(raw); key != "" && IsCanonicalLaborKey(key) {
			return SyntheticLaborEntry(ref)
		}
	}

	// Tolerant substring match: upstream systems truncate or abbreviate
	// codes, so containment in either direction counts. Index keys are
	// sorted, making the first-match tie-break deterministic.
	if idKey := keyutils.NormalizeKey(ref.PrimaryID()); idKey != "" {
		for _, key := range r.index.Keys() {
			if strings.Contains(key, idKey) || strings.Contains(idKey, key) {
				entry, _ := r.index.Get(key)
				r.logger.WithFields(
					logging.Field{Key: logging.FieldKey, Value: idKey},
					logging.Field{Key: "matched_key", Value: key},
				).Debug("Reference resolved through tolerant substring match")
				return entry
			}
		}
	}

	return nil
}
