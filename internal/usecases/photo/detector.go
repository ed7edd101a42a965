package photo

import (
	"strings"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
)

// triggerKeywords подстроки, по которым сообщение считается запросом фото
var triggerKeywords = []string{
	"photo",
	"picture",
	"pic",
	"image",
	"show me",
	"send me",
	"what do you look like",
	"see you",
	"selfie",
	"outfit",
}

type categoryRule struct {
	keywords []string
	category domain.ImageCategory
	tags     []string
}

// categoryRules проверяются по порядку, побеждает первое совпадение
var categoryRules = []categoryRule{
	{keywords: []string{"workout", "gym", "exercise"}, category: domain.ImageCategoryFitness, tags: []string{"workout", "active"}},
	{keywords: []string{"beach", "swim", "bikini"}, category: domain.ImageCategoryBeach, tags: []string{"beach", "summer", "outdoor"}},
	{keywords: []string{"dress", "fancy", "formal"}, category: domain.ImageCategoryFormal, tags: []string{"dress", "elegant"}},
	{keywords: []string{"selfie", "face"}, category: domain.ImageCategorySelfie, tags: []string{"closeup", "portrait"}},
}

var defaultRule = categoryRule{category: domain.ImageCategoryCasual, tags: []string{"casual", "everyday"}}

// Detect решает, просит ли сообщение фото, и если да, какой категории.
// nil означает, что запроса нет
func Detect(text string) *domain.PhotoIntent {
	lower := strings.ToLower(text)
	if !containsAny(lower, triggerKeywords) {
		return nil
	}

	rule := defaultRule
	for _, r := range categoryRules {
		if containsAny(lower, r.keywords) {
			rule = r
			break
		}
	}

	return &domain.PhotoIntent{
		ShouldSendImage: true,
		Category:        rule.category,
		Tags:            append([]string(nil), rule.tags...),
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
