// Package validation sanitizes and checks user-submitted project data before
// it reaches the service layer.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"hyperdrive/internal/models"
	"hyperdrive/internal/textutil"
	appErr "hyperdrive/pkg/errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// Field caps, in runes. Longer input is truncated, never rejected.
const (
	MaxName      = 80
	MaxCategory  = 40
	MaxPurpose   = 200
	MaxContact   = 200
	MaxNarrative = 4000
	MaxLinks     = 2000
	MaxReason    = 200
)

// ProjectInput is the create payload. Missing fields decode as empty strings.
type ProjectInput struct {
	Name          string `json:"name"`
	Category      string `json:"category" validate:"category"`
	Purpose       string `json:"purpose"`
	Problem       string `json:"problem"`
	Solution      string `json:"solution"`
	TargetMarket  string `json:"targetMarket"`
	BusinessModel string `json:"businessModel"`
	Team          string `json:"team"`
	Contact       string `json:"contact"`
	Links         string `json:"links"`
}

// ProjectPatch is the partial update payload. A nil field is left untouched.
type ProjectPatch struct {
	Name          *string `json:"name"`
	Category      *string `json:"category" validate:"omitnil,category"`
	Purpose       *string `json:"purpose"`
	Problem       *string `json:"problem"`
	Solution      *string `json:"solution"`
	TargetMarket  *string `json:"targetMarket"`
	BusinessModel *string `json:"businessModel"`
	Team          *string `json:"team"`
	Contact       *string `json:"contact"`
	Links         *string `json:"links"`
}

// ListQuery holds the public listing parameters.
type ListQuery struct {
	Q        string `json:"q" query:"q"`
	Category string `json:"category" query:"category"`
	Page     int    `json:"page" query:"page" validate:"gte=1"`
	PageSize int    `json:"page_size" query:"page_size" validate:"gte=1,lte=50"`
}

// Validator cleans input and enforces the category allow-list.
type Validator struct {
	validate   *validator.Validate
	categories []string
	allowed    map[string]struct{}
}

// New builds a Validator accepting exactly the given categories.
func New(categories []string) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		allowed:  make(map[string]struct{}, len(categories)),
	}
	for _, c := range categories {
		if _, dup := v.allowed[c]; !dup {
			v.allowed[c] = struct{}{}
			v.categories = append(v.categories, c)
		}
	}
	sort.Strings(v.categories)

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Only fails if the tag is malformed.
	_ = v.validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := v.allowed[fl.Field().String()]
		return ok
	})
	return v
}

// Project sanitizes a create payload and returns an unsaved project carrying
// the cleaned fields. Ownership and status are left to the caller.
func (v *Validator) Project(in ProjectInput) (*models.Project, error) {
	clean := ProjectInput{
		Name:          textutil.CleanText(in.Name, MaxName),
		Category:      textutil.CleanText(in.Category, MaxCategory),
		Purpose:       textutil.CleanText(in.Purpose, MaxPurpose),
		Problem:       textutil.CleanText(in.Problem, MaxNarrative),
		Solution:      textutil.CleanText(in.Solution, MaxNarrative),
		TargetMarket:  textutil.CleanText(in.TargetMarket, MaxNarrative),
		BusinessModel: textutil.CleanText(in.BusinessModel, MaxNarrative),
		Team:          textutil.CleanText(in.Team, MaxNarrative),
		Contact:       textutil.CleanText(in.Contact, MaxContact),
	}
	if err := v.validate.Struct(clean); err != nil {
		return nil, v.translate(err)
	}

	return &models.Project{
		Name:          clean.Name,
		Category:      clean.Category,
		Purpose:       clean.Purpose,
		Problem:       clean.Problem,
		Solution:      clean.Solution,
		TargetMarket:  clean.TargetMarket,
		BusinessModel: clean.BusinessModel,
		Team:          clean.Team,
		Contact:       clean.Contact,
		Links:         Links(in.Links),
	}, nil
}

// ApplyPatch sanitizes the present fields of patch and copies them onto p.
// p is not modified when validation fails.
func (v *Validator) ApplyPatch(p *models.Project, patch ProjectPatch) error {
	clean := ProjectPatch{
		Name:          cleanPtr(patch.Name, MaxName),
		Category:      cleanPtr(patch.Category, MaxCategory),
		Purpose:       cleanPtr(patch.Purpose, MaxPurpose),
		Problem:       cleanPtr(patch.Problem, MaxNarrative),
		Solution:      cleanPtr(patch.Solution, MaxNarrative),
		TargetMarket:  cleanPtr(patch.TargetMarket, MaxNarrative),
		BusinessModel: cleanPtr(patch.BusinessModel, MaxNarrative),
		Team:          cleanPtr(patch.Team, MaxNarrative),
		Contact:       cleanPtr(patch.Contact, MaxContact),
	}
	if err := v.validate.Struct(clean); err != nil {
		return v.translate(err)
	}

	assign(&p.Name, clean.Name)
	assign(&p.Category, clean.Category)
	assign(&p.Purpose, clean.Purpose)
	assign(&p.Problem, clean.Problem)
	assign(&p.Solution, clean.Solution)
	assign(&p.TargetMarket, clean.TargetMarket)
	assign(&p.BusinessModel, clean.BusinessModel)
	assign(&p.Team, clean.Team)
	assign(&p.Contact, clean.Contact)
	if patch.Links != nil {
		p.Links = Links(*patch.Links)
	}
	return nil
}

// Struct runs tag validation on any value, e.g. a ListQuery.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return v.translate(err)
	}
	return nil
}

// Categories returns the allow-list this validator enforces.
func (v *Validator) Categories() []string { return v.categories }

// Links strips markup from a raw links blob, caps it and normalizes it.
// Separators, including newlines, survive the stripping.
func Links(raw string) datatypes.JSONSlice[string] {
	return textutil.NormalizeLinks(textutil.Truncate(textutil.StripMarkup(raw), MaxLinks))
}

// Reason cleans a report reason. Empty reasons become nil.
func Reason(raw string) *string {
	r := textutil.CleanText(raw, MaxReason)
	if r == "" {
		return nil
	}
	return &r
}

func (v *Validator) translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErr.Wrap(err, appErr.CodeInvalid, "Validation failed")
	}

	messages := make(map[string]string, len(fieldErrs))
	for _, e := range fieldErrs {
		if e.Tag() == "category" {
			messages[e.Field()] = v.categoryMessage()
			continue
		}
		messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}

	detail := "Validation failed"
	if len(fieldErrs) == 1 {
		detail = messages[fieldErrs[0].Field()]
	}
	return appErr.New(appErr.CodeInvalid, detail).WithMeta("errors", messages)
}

func (v *Validator) categoryMessage() string {
	return "category must be one of: " + strings.Join(v.categories, ", ")
}

func cleanPtr(s *string, max int) *string {
	if s == nil {
		return nil
	}
	c := textutil.CleanText(*s, max)
	return &c
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
