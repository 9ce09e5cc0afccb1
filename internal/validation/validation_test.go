package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"hyperdrive/internal/models"
	appErr "hyperdrive/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *Validator {
	return New([]string{"Tooling", "DeFi", "Gaming", "DeFi"})
}

func TestProjectCleansEveryField(t *testing.T) {
	v := newValidator()

	p, err := v.Project(ProjectInput{
		Name:          "<b>Hyper</b>   drive",
		Category:      " DeFi ",
		Purpose:       "<script>x()</script>Swap tokens",
		Problem:       "fees\n\nare high",
		Solution:      strings.Repeat("s", MaxNarrative+50),
		TargetMarket:  "traders",
		BusinessModel: "fees",
		Contact:       "<a href='mailto:a@b.c'>a@b.c</a>",
		Links:         "<i>https://a.com?utm_source=x&b=1</i>\nhttps://a.com?b=1, ftp://nope",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hyper drive", p.Name)
	assert.Equal(t, "DeFi", p.Category)
	assert.Equal(t, "Swap tokens", p.Purpose)
	assert.Equal(t, "fees are high", p.Problem)
	assert.Equal(t, MaxNarrative, utf8.RuneCountInString(p.Solution))
	assert.Equal(t, "", p.Team)
	assert.Equal(t, "a@b.c", p.Contact)
	assert.Equal(t, []string{"https://a.com?b=1"}, []string(p.Links))
}

func TestProjectCapsLongInput(t *testing.T) {
	v := newValidator()
	long := strings.Repeat("<p>word</p> ", 2000)

	p, err := v.Project(ProjectInput{
		Name: long, Category: "Gaming", Purpose: long, Problem: long, Solution: long,
		TargetMarket: long, BusinessModel: long, Team: long, Contact: long,
	})
	require.NoError(t, err)

	caps := map[string]struct {
		value string
		max   int
	}{
		"name":     {p.Name, MaxName},
		"purpose":  {p.Purpose, MaxPurpose},
		"problem":  {p.Problem, MaxNarrative},
		"solution": {p.Solution, MaxNarrative},
		"market":   {p.TargetMarket, MaxNarrative},
		"model":    {p.BusinessModel, MaxNarrative},
		"team":     {p.Team, MaxNarrative},
		"contact":  {p.Contact, MaxContact},
	}
	for field, c := range caps {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.value), c.max, field)
		assert.NotContains(t, c.value, "<", field)
	}
}

func TestProjectRejectsUnknownCategory(t *testing.T) {
	v := newValidator()

	for _, cat := range []string{"", "defi", "Other", "<b>DeFi</b>x"} {
		_, err := v.Project(ProjectInput{Name: "x", Category: cat})
		require.Error(t, err, cat)

		ae, ok := appErr.As(err)
		require.True(t, ok)
		assert.Equal(t, appErr.CodeInvalid, ae.Code)
		assert.Equal(t, "category must be one of: DeFi, Gaming, Tooling", ae.Message)
		assert.Contains(t, ae.Meta["errors"], "category")
	}
}

func TestProjectAcceptsCategoryAfterMarkupRemoval(t *testing.T) {
	p, err := newValidator().Project(ProjectInput{Category: "<em>Tooling</em>"})
	require.NoError(t, err)
	assert.Equal(t, "Tooling", p.Category)
	assert.NotNil(t, p.Links)
	assert.Empty(t, p.Links)
}

func TestApplyPatchOnlyTouchesPresentFields(t *testing.T) {
	v := newValidator()
	p := &models.Project{Name: "Old", Category: "DeFi", Team: "alice", Links: []string{"https://old.com"}}

	name := " <b>New</b> name "
	links := "https://new.com?gclid=1#top"
	require.NoError(t, v.ApplyPatch(p, ProjectPatch{Name: &name, Links: &links}))

	assert.Equal(t, "New name", p.Name)
	assert.Equal(t, "DeFi", p.Category)
	assert.Equal(t, "alice", p.Team)
	assert.Equal(t, []string{"https://new.com"}, []string(p.Links))
}

func TestApplyPatchRechecksCategory(t *testing.T) {
	v := newValidator()
	p := &models.Project{Name: "Keep", Category: "DeFi"}

	bad := "Casino"
	name := "Changed"
	err := v.ApplyPatch(p, ProjectPatch{Name: &name, Category: &bad})
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	assert.Equal(t, "Keep", p.Name, "project must be untouched on failure")
	assert.Equal(t, "DeFi", p.Category)

	good := "Gaming"
	require.NoError(t, v.ApplyPatch(p, ProjectPatch{Category: &good}))
	assert.Equal(t, "Gaming", p.Category)
}

func TestStructValidatesListQuery(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Struct(ListQuery{Page: 1, PageSize: 12}))
	assert.NoError(t, v.Struct(ListQuery{Page: 3, PageSize: 50}))

	for _, q := range []ListQuery{{Page: 0, PageSize: 12}, {Page: 1, PageSize: 0}, {Page: 1, PageSize: 51}} {
		err := v.Struct(q)
		require.Error(t, err)
		ae, ok := appErr.As(err)
		require.True(t, ok)
		assert.Equal(t, appErr.CodeInvalid, ae.Code)
	}

	err := v.Struct(ListQuery{Page: 1, PageSize: 99})
	ae, _ := appErr.As(err)
	assert.Equal(t, "Field 'page_size' failed on the 'lte' tag", ae.Message)
}

func TestReason(t *testing.T) {
	assert.Nil(t, Reason(""))
	assert.Nil(t, Reason("  <b></b> "))

	r := Reason("<i>spam</i>  " + strings.Repeat("x", 500))
	require.NotNil(t, r)
	assert.True(t, strings.HasPrefix(*r, "spam x"))
	assert.Equal(t, MaxReason, utf8.RuneCountInString(*r))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"DeFi", "Gaming", "Tooling"}, newValidator().Categories())
}
