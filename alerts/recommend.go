package alerts

import (
	"fmt"
	"strings"
)

// trafficRecommendations suggests actions for a traffic spike based on which
// source is spiking.
func trafficRecommendations(source string) []Recommendation {
	switch strings.ToLower(source) {
	case "organic":
		return []Recommendation{
			{Action: "content_boost", Description: "إنشاء 3 مقالات إضافية حول الموضوع المتصدر"},
			{Action: "keyword_focus", Description: "زيادة التركيز على الكلمات المفتاحية ذات الأداء العالي"},
			{Action: "social_promotion", Description: "مشاركة المحتوى عالي الأداء على منصات التواصل الاجتماعي"},
		}
	case "social":
		return []Recommendation{
			{Action: "boost_post", Description: "ترويج المنشورات عالية الأداء بميزانية إضافية"},
			{Action: "create_similar", Description: "إنشاء محتوى مشابه للمحتوى عالي الأداء"},
			{Action: "engagement_campaign", Description: "إطلاق حملة تفاعلية لزيادة المشاركة"},
		}
	case "direct":
		return []Recommendation{
			{Action: "retention_campaign", Description: "حملة احتفاظ بالزوار المباشرين"},
			{Action: "special_offer", Description: "تقديم عرض خاص للزوار المباشرين"},
			{Action: "remarketing", Description: "استهداف الزوار المباشرين بحملة إعادة تسويق"},
		}
	case "referral":
		return []Recommendation{
			{Action: "partnership_expand", Description: "توسيع الشراكة مع المواقع المحيلة"},
			{Action: "backlink_campaign", Description: "حملة بناء روابط خلفية جديدة"},
			{Action: "referral_program", Description: "إطلاق برنامج إحالة مكافآت"},
		}
	default:
		return []Recommendation{
			{Action: "traffic_analysis", Description: "تحليل مصادر الزيارات بشكل متعمق"},
			{Action: "conversion_optimize", Description: "تحسين معدلات التحويل للزوار الجدد"},
			{Action: "content_tailor", Description: "تخصيص المحتوى بناءً على مصدر الزيارة"},
		}
	}
}

// keywordRecommendations suggests actions for keyword openings. It expects
// opportunities sorted by score, highest first.
func keywordRecommendations(opportunities []map[string]any) []Recommendation {
	var topKeywords []string
	for i, op := range opportunities {
		if i >= 3 {
			break
		}
		if keyword, ok := op["keyword"].(string); ok {
			topKeywords = append(topKeywords, keyword)
		}
	}
	if len(topKeywords) == 0 {
		return nil
	}

	recommendations := []Recommendation{
		{
			Action:      "content_creation",
			Description: fmt.Sprintf("إنشاء محتوى يستهدف الكلمات: %s", strings.Join(topKeywords, ", ")),
		},
		{
			Action:      "ad_campaign",
			Description: fmt.Sprintf("إطلاق حملة إعلانية مدفوعة تستهدف: %s", topKeywords[0]),
		},
	}

	for i, op := range opportunities {
		if i >= 2 {
			break
		}
		keyword, ok := op["keyword"].(string)
		if !ok {
			continue
		}
		rank, ok := toFloat(op["current_rank"])
		if !ok {
			continue
		}

		switch {
		case rank <= 20 && rank > 10:
			recommendations = append(recommendations, Recommendation{
				Action:      "rank_boost",
				Description: fmt.Sprintf("تحسين الكلمة '%s' من المركز %d إلى الصفحة الأولى", keyword, int(rank)),
			})
		case rank <= 10 && rank > 3:
			recommendations = append(recommendations, Recommendation{
				Action:      "top3_push",
				Description: fmt.Sprintf("دفع الكلمة '%s' من المركز %d إلى أول 3 نتائج", keyword, int(rank)),
			})
		}
	}

	if competition, ok := toFloat(opportunities[0]["competition"]); ok && competition < 0.4 {
		if keyword, ok := opportunities[0]["keyword"].(string); ok {
			recommendations = append(recommendations, Recommendation{
				Action:      "pillar_content",
				Description: fmt.Sprintf("إنشاء محتوى شامل (2000+ كلمة) عن '%s'", keyword),
			})
		}
	}

	return recommendations
}

// socialRecommendations suggests actions for an engagement spike based on the
// platform and content type of the spiking post.
func socialRecommendations(opportunity map[string]any) []Recommendation {
	platform := strings.ToLower(stringOr(opportunity["platform"], ""))
	postType := strings.ToLower(stringOr(opportunity["post_type"], ""))

	recommendations := []Recommendation{
		{
			Action:      "boost_post",
			Description: fmt.Sprintf("ترويج المنشور عالي الأداء على %s بميزانية 50-100 ريال", platform),
		},
		{
			Action:      "create_similar",
			Description: "إنشاء 2-3 منشورات مشابهة بنفس الأسلوب والمحتوى",
		},
	}

	switch platform {
	case "instagram":
		recommendations = append(recommendations, Recommendation{
			Action:      "story_highlight",
			Description: "تحويل المحتوى عالي الأداء إلى قصة مميزة (Highlight)",
		})
	case "facebook":
		recommendations = append(recommendations, Recommendation{
			Action:      "audience_expand",
			Description: "توسيع الجمهور المستهدف بناءً على تفاعلات المنشور الناجح",
		})
	case "twitter", "x":
		recommendations = append(recommendations, Recommendation{
			Action:      "hashtag_campaign",
			Description: "إطلاق حملة هاشتاج مرتبطة بالمحتوى عالي الأداء",
		})
	case "linkedin":
		recommendations = append(recommendations, Recommendation{
			Action:      "article_expand",
			Description: "تطوير المنشور إلى مقال كامل على LinkedIn",
		})
	case "tiktok":
		recommendations = append(recommendations, Recommendation{
			Action:      "challenge_create",
			Description: "إنشاء تحدي مرتبط بالمحتوى عالي الأداء",
		})
	}

	switch postType {
	case "video":
		recommendations = append(recommendations, Recommendation{
			Action:      "video_series",
			Description: "تطوير سلسلة فيديوهات قصيرة مبنية على المحتوى الناجح",
		})
	case "image":
		recommendations = append(recommendations, Recommendation{
			Action:      "carousel_expand",
			Description: "تطوير المحتوى إلى carousel متعدد الصور مع تفاصيل إضافية",
		})
	case "text":
		recommendations = append(recommendations, Recommendation{
			Action:      "visual_transform",
			Description: "تحويل المحتوى النصي إلى رسومات معلوماتية أو صور جذابة",
		})
	}

	return recommendations
}
