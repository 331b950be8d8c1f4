package stores

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/example/glowcheck/internal/models"
	"github.com/example/glowcheck/internal/rules"
)

// RuleStore resolves category tags to rule records. Absence of a rule is
// normal; many tags carry no guidance at all.
type RuleStore struct {
	db *gorm.DB
}

// NewRuleStore constructs RuleStore.
func NewRuleStore(db *gorm.DB) *RuleStore {
	return &RuleStore{db: db}
}

// RuleForTag looks up the rule record for a tag by exact match.
func (s *RuleStore) RuleForTag(tag string) (rules.RuleSet, bool) {
	var record models.Rule
	if err := s.db.Where("tag = ?", tag).First(&record).Error; err != nil {
		return rules.RuleSet{}, false
	}
	rs, err := decodeRule(record)
	if err != nil {
		return rules.RuleSet{}, false
	}
	return rs, true
}

// RuleSnapshot is an immutable in-memory copy of the rule table, injected
// into the evaluation engine per call. It implements rules.RuleLookup.
type RuleSnapshot map[string]rules.RuleSet

// Snapshot loads every rule record into memory.
func (s *RuleStore) Snapshot() (RuleSnapshot, error) {
	var records []models.Rule
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}
	snapshot := make(RuleSnapshot, len(records))
	for _, record := range records {
		rs, err := decodeRule(record)
		if err != nil {
			return nil, fmt.Errorf("decode rule %q: %w", record.Tag, err)
		}
		snapshot[record.Tag] = rs
	}
	return snapshot, nil
}

// RuleForTag implements rules.RuleLookup over the snapshot.
func (snap RuleSnapshot) RuleForTag(tag string) (rules.RuleSet, bool) {
	rs, ok := snap[tag]
	return rs, ok
}

func decodeRule(record models.Rule) (rules.RuleSet, error) {
	var rs rules.RuleSet
	if err := decodeClauses(record.Avoid, &rs.Avoid); err != nil {
		return rules.RuleSet{}, err
	}
	if err := decodeClauses(record.UseWith, &rs.UseWith); err != nil {
		return rules.RuleSet{}, err
	}
	if err := decodeClauses(record.UseWhen, &rs.UseWhen); err != nil {
		return rules.RuleSet{}, err
	}
	return rs, nil
}

func decodeClauses(raw []byte, dst *[]rules.Clause) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.New("malformed clause list: " + err.Error())
	}
	return nil
}
