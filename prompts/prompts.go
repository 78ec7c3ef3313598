// Package prompts holds the typed builders for every model prompt the
// backend sends. Each prompt renders from a fixed template with a fixed
// parameter set, so request fields can't drift into or inject new
// instructions.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/raushankrgupta/stylemate-backend/models"
)

// HealthCheck is the trivial prompt used to verify the model backend is
// reachable and credentialed.
const HealthCheck = "Respond with only the word: OK"

// ImageAnalysis asks the vision model for structured clothing attributes.
const ImageAnalysis = `
Analyze the image and extract the following details:
- Clothing type (e.g., t-shirt, jeans, jacket)
- Color of each clothing item
- Brand or logo if visible
- Accessories (e.g., watches, hats, jewelry)
- Style description (e.g., casual, formal, streetwear)
- Any visible text on clothing

Return structured JSON output.
`

var funcs = template.FuncMap{
	"orElse": func(fallback, value string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return value
	},
	"num": func(v *float64) string {
		if v == nil {
			return "Unknown"
		}
		return fmt.Sprintf("%g", *v)
	},
}

var recommendationTmpl = template.Must(template.New("recommendation").Funcs(funcs).Parse(`
You are an advanced AI-powered fashion stylist with expertise in personal styling, color theory, and fabric selection. Your task is to recommend a stylish and practical outfit tailored to the user's characteristics and the current weather conditions.

## User Profile:
- **Gender:** {{orElse "Not specified" .User.Gender}}
- **Height:** {{orElse "Not specified" .User.Height}}
- **Skin Tone:** {{orElse "Not specified" .User.SkinTone}}
- **Body Type:** {{orElse "Not specified" .User.BodyType}}
- **Style Preferences:** {{orElse "Any" .User.StylePreference}}
- **Activity Level:** {{orElse "Not specified" .User.ActivityLevel}}
- **Occasion:** {{orElse "Casual" .User.Occasion}} (e.g., casual, work, formal, party, sports)
- **Color Preferences:** {{orElse "Not specified" .User.ColorPreference}}
- **Fabric Sensitivities:** {{orElse "None specified" .User.FabricSensitivity}}

## Weather Conditions:
- **Location:** {{orElse "Unknown" .Weather.City}}, {{orElse "Unknown" .Weather.Country}}
- **Temperature:** {{num .Weather.Temperature}}{{if .Weather.Temperature}}°C{{end}}
- **Condition:** {{orElse "Unknown" .Weather.Condition}}
- **Humidity:** {{num .Weather.Humidity}}{{if .Weather.Humidity}}%{{end}}
- **Wind Speed:** {{num .Weather.WindSpeed}}{{if .Weather.WindSpeed}} km/h{{end}}
- **Season:** {{orElse "Unknown" .Weather.Season}}

## Outfit Recommendation:
Provide a detailed outfit suggestion that aligns with the user's profile, style preferences, and weather conditions. The recommendation should include:

1. **Topwear:** Specify type (e.g., t-shirt, sweater, blouse), ideal fabric, fit, and color.
2. **Bottomwear/Dress:** Recommend pants, skirts, or dresses based on occasion and body type.
3. **Outerwear (if necessary):** Consider layering options for comfort and style.
4. **Footwear:** Suggest shoes that match the outfit, activity level, and weather conditions.
5. **Accessories:** Include relevant items such as scarves, watches, bags, sunglasses, jewelry, and hats.
6. **Grooming/Hair Advice (if applicable):** Suggest hairstyles or grooming tips based on the overall look.
7. **Justification & Styling Tips:** Briefly explain why the selected outfit suits the user, considering aesthetics, practicality, and seasonal appropriateness.

### Response Formatting:
- Use bullet points or clear sections for easy readability.
- Maintain a professional yet conversational tone.
- Ensure recommendations are fashion-forward while considering comfort and practicality.
`))

var extractionTmpl = template.Must(template.New("extraction").Parse(`
You are an intelligent extractor that analyzes HTML content. Your task is to generate a concise and relevant title for the content, and extract the most contextually appropriate image URL from it.

Instructions:
- Return ONLY a valid JSON object with the fields "title" and "imageUrl".
- Do not include any explanation or additional text, only the JSON.
- If no image is found, use "imageUrl": "".
- Ensure the JSON is properly formatted and parsable.

Format:
{
  "title": "A short, descriptive title",
  "imageUrl": "https://example.com/image.jpg"
}

HTML Content:
"""
{{.HTMLContent}}
"""
`))

var summaryTmpl = template.Must(template.New("summary").Parse(`
Based on the extracted clothing analysis, generate a concise summary of the user's outfit.
Ensure the summary includes key clothing items, colors, brand (if visible), accessories, and style type.

Now generate a similar summary for the following data:
{{.AnalysisJSON}}
`))

var matchTmpl = template.Must(template.New("match").Parse(`
Given the following outfit recommendation and a list of JSON outfit analyses, determine which ones best match the recommendation based on clothing type, color, style, and accessories.

Return a JSON array of IDs for the matching outfits, based on high similarity.

Recommendation:
"""
{{.Recommendation}}
"""

Outfit Data Array:
{{.DataJSON}}

Return only the array of matching IDs in valid JSON format, without extra text or code blocks.
`))

var keywordsTmpl = template.Must(template.New("keywords").Parse(`
You are a product discovery expert specializing in keyword optimization for e-commerce platforms like Amazon, Flipkart, and Myntra.

Based on the following user preferences, generate a highly relevant and optimized product **search keyword string** that can be used on marketplaces to find perfect results.

## User Info:
- Gender: {{.Gender}}
- Preferences: {{.Preferences}}

### Output Instructions:
- Respond with only a single line of comma-separated **product search keywords**.
- Keep keywords relevant, specific, and practical.
- Do not include explanations or extra text.
`))

// Recommendation renders the outfit-recommendation prompt from the user
// profile and weather snapshot, substituting placeholders for absent
// optional fields.
func Recommendation(user models.UserProfile, weather models.WeatherSnapshot) (string, error) {
	return render(recommendationTmpl, struct {
		User    models.UserProfile
		Weather models.WeatherSnapshot
	}{user, weather})
}

// Extraction renders the order-block title/image extraction prompt.
func Extraction(htmlContent string) (string, error) {
	return render(extractionTmpl, struct{ HTMLContent string }{htmlContent})
}

// OutfitSummary renders the summarization prompt over the parsed analysis
// attributes.
func OutfitSummary(analysis map[string]interface{}) (string, error) {
	data, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("failed to marshal analysis: %w", err)
	}
	return render(summaryTmpl, struct{ AnalysisJSON string }{string(data)})
}

// Match renders the wardrobe-similarity prompt over a recommendation and
// the raw wardrobe data array.
func Match(recommendation string, dataArray json.RawMessage) (string, error) {
	return render(matchTmpl, struct {
		Recommendation string
		DataJSON       string
	}{recommendation, string(dataArray)})
}

// Keywords renders the marketplace search-keyword prompt.
func Keywords(gender, preferences string) (string, error) {
	return render(keywordsTmpl, struct {
		Gender      string
		Preferences string
	}{gender, preferences})
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}
