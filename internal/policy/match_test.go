package policy_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lc/pimguard/internal/policy"
)

type MatchTestSuite struct {
	suite.Suite
}

func (s *MatchTestSuite) TestAllowsModeAll() {
	testCases := []struct {
		name string
		cfg  policy.DomainConfig
	}{
		{
			name: "explicit all with empty items",
			cfg:  policy.DomainConfig{Enabled: true, Mode: policy.ModeAll},
		},
		{
			name: "zero mode behaves as all",
			cfg:  policy.DomainConfig{Enabled: true},
		},
		{
			name: "all ignores a populated item list",
			cfg:  policy.DomainConfig{Enabled: true, Mode: policy.ModeAll, Items: []string{"Work"}},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.True(tc.cfg.Allows("Anything", ""))
			s.True(tc.cfg.Allows("Work", "cal-1"))
			s.True(tc.cfg.Allows("", ""))
		})
	}
}

func (s *MatchTestSuite) TestAllowsAllowlist() {
	cfg := policy.DomainConfig{
		Enabled: true,
		Mode:    policy.ModeAllowlist,
		Items:   []string{"Travel", "cal-42", "📚 Reading"},
	}

	testCases := []struct {
		name    string
		item    string
		id      string
		allowed bool
	}{
		{name: "exact name", item: "Travel", allowed: true},
		{name: "case-insensitive name", item: "tRaVeL", allowed: true},
		{name: "id match", item: "Unrelated Name", id: "cal-42", allowed: true},
		{name: "id match is case-insensitive", item: "Unrelated Name", id: "CAL-42", allowed: true},
		{name: "decorated item against plain entry", item: "✈️ Travel", allowed: true},
		{name: "plain item against decorated entry", item: "Reading", allowed: true},
		{name: "decorated on both sides", item: "📖 reading", allowed: true},
		{name: "no match", item: "Personal", allowed: false},
		{name: "substring does not match", item: "Travel Plans", allowed: false},
		{name: "empty name without id", item: "", allowed: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.allowed, cfg.Allows(tc.item, tc.id))
		})
	}
}

func (s *MatchTestSuite) TestBlocklistComplementsAllowlist() {
	items := []string{"Personal", "cal-7", "✈️ Travel"}
	allow := policy.DomainConfig{Enabled: true, Mode: policy.ModeAllowlist, Items: items}
	block := policy.DomainConfig{Enabled: true, Mode: policy.ModeBlocklist, Items: items}

	queries := []struct{ name, id string }{
		{"Personal", ""},
		{"personal", ""},
		{"Work", ""},
		{"Work", "cal-7"},
		{"Travel", ""},
		{"✈️ Travel", ""},
		{"", "cal-9"},
	}

	for _, q := range queries {
		s.Equal(!allow.Allows(q.name, q.id), block.Allows(q.name, q.id),
			"blocklist must be the exact complement for %q/%q", q.name, q.id)
	}
}

func (s *MatchTestSuite) TestBlocklistDeniesListedItem() {
	cfg := policy.DomainConfig{Enabled: true, Mode: policy.ModeBlocklist, Items: []string{"Personal"}}
	s.False(cfg.Allows("Personal", ""))
	s.True(cfg.Allows("Work", ""))
}

func (s *MatchTestSuite) TestStripDecorativePrefix() {
	testCases := []struct {
		in   string
		want string
	}{
		{"✈️ Travel", "Travel"},
		{"📚 Reading List", "Reading List"},
		{"❤️ Favorites", "Favorites"},
		{"  Work  ", "Work"},
		{"Personal", "Personal"},
		{"✨", ""},
		{"", ""},
		{"🏠🏠 Home", "Home"},
	}

	for _, tc := range testCases {
		s.Equal(tc.want, policy.StripDecorativePrefix(tc.in), "input %q", tc.in)
	}
}

func (s *MatchTestSuite) TestFilterCollection() {
	type cal struct{ id, name string }
	nameOf := func(c cal) string { return c.name }
	idOf := func(c cal) string { return c.id }

	cals := []cal{
		{id: "1", name: "Work"},
		{id: "2", name: "✈️ Travel"},
		{id: "3", name: "Personal"},
	}

	s.Run("mode all returns the input unchanged", func() {
		cfg := policy.DomainConfig{Enabled: true, Mode: policy.ModeAll}
		got := policy.FilterCollection(cals, cfg, nameOf, idOf)
		s.Len(got, 3)
		s.True(&got[0] == &cals[0], "mode all must short-circuit, not copy")
	})

	s.Run("allowlist keeps matches only", func() {
		cfg := policy.DomainConfig{Enabled: true, Mode: policy.ModeAllowlist, Items: []string{"Travel", "1"}}
		got := policy.FilterCollection(cals, cfg, nameOf, idOf)
		s.Equal([]cal{{id: "1", name: "Work"}, {id: "2", name: "✈️ Travel"}}, got)
	})

	s.Run("blocklist removes matches", func() {
		cfg := policy.DomainConfig{Enabled: true, Mode: policy.ModeBlocklist, Items: []string{"personal"}}
		got := policy.FilterCollection(cals, cfg, nameOf, idOf)
		s.Equal([]cal{{id: "1", name: "Work"}, {id: "2", name: "✈️ Travel"}}, got)
	})
}

func TestMatchSuite(t *testing.T) {
	suite.Run(t, new(MatchTestSuite))
}
