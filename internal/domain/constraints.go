package domain

import (
	"fmt"
	"regexp"
)

// Field patterns mirror the product's format rules: names and descriptions
// allow letters, numbers, punctuation, and spaces within length bounds;
// tree names are deliberately stricter.
const (
	treeNamePattern    = `^[A-Za-z0-9._ ]{3,50}$`
	skillNamePattern   = `^[\p{L}\p{N}\p{P}\p{Zs}]{1,50}$`
	titlePattern       = `^[\p{L}\p{N}\p{P}\p{Zs}]{1,50}$`
	descriptionPattern = `^[\p{L}\p{N}\p{P}\p{Zs}]{1,500}$`
	displayNamePattern = `^[A-Za-z0-9._]{3,30}$`
)

// Constraints holds the compiled pattern matchers and numeric limits the
// validators use. It is built once at startup from configuration and passed
// into services by reference; there is no package-level mutable state.
type Constraints struct {
	TreeName    *regexp.Regexp
	SkillName   *regexp.Regexp
	Title       *regexp.Regexp
	Description *regexp.Regexp
	DisplayName *regexp.Regexp
	ImageURL    *regexp.Regexp

	// MaxUserNodes caps skills+achievements per account for copy operations.
	MaxUserNodes int
	// MaxActivityHours bounds a single activity's duration.
	MaxActivityHours float64
	// WeightSumTolerance is the allowed deviation of a weight sum from 1.0.
	WeightSumTolerance float64
}

// NewConstraints compiles the constraint set. imageDomain is the bare domain
// suffix background URLs must belong to (e.g. "skilltree.com"); any scheme,
// subdomain, and path on that domain are accepted.
func NewConstraints(imageDomain string, maxUserNodes int) (*Constraints, error) {
	if imageDomain == "" {
		return nil, fmt.Errorf("image domain must not be empty: %w", ErrValidation)
	}
	imageURL, err := regexp.Compile(
		`^(https?://)?([a-zA-Z0-9.-]+\.)?` + regexp.QuoteMeta(imageDomain) + `(/.*)?$`)
	if err != nil {
		return nil, fmt.Errorf("compile image url pattern: %w", err)
	}

	return &Constraints{
		TreeName:           regexp.MustCompile(treeNamePattern),
		SkillName:          regexp.MustCompile(skillNamePattern),
		Title:              regexp.MustCompile(titlePattern),
		Description:        regexp.MustCompile(descriptionPattern),
		DisplayName:        regexp.MustCompile(displayNamePattern),
		ImageURL:           imageURL,
		MaxUserNodes:       maxUserNodes,
		MaxActivityHours:   12,
		WeightSumTolerance: 0.05,
	}, nil
}

// ValidImageURL reports whether url is empty or belongs to the allowed domain.
func (c *Constraints) ValidImageURL(url string) bool {
	if url == "" {
		return true
	}
	return c.ImageURL.MatchString(url)
}
