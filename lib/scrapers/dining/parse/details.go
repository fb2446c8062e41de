package parse

import (
	"context"
	"strings"

	"bruinmenu/lib/htmlutil"
	"bruinmenu/lib/scrapers/dining/model"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html"
)

// the ingredient/allergen block is a run of label/value text nodes:
//
//	<div class="ingred_allergen">
//	  <p><strong>INGREDIENTS:</strong> ...</p>
//	  <p><strong>ALLERGENS*:</strong> ...</p>
//	</div>
//
// these indices count the whitespace between the paragraphs as well.
const (
	ingredientsTextIndex = 2
	allergensTextIndex   = 5
)

// Details parses an item's recipe page. Each field is looked up on its
// own, a missing block only leaves that field unset.
func Details(ctx context.Context, doc string) model.ItemDetails {
	_, span := tracer.Start(ctx, "parse:Details")
	defer span.End()

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return model.ItemDetails{}
	}

	details := model.ItemDetails{
		Description: description(parsed),
		Ingredients: ingredAllergenField(parsed, ingredientsTextIndex),
		Allergens:   ingredAllergenField(parsed, allergensTextIndex),
	}
	span.SetAttributes(
		attribute.Bool("description", details.Description != nil),
		attribute.Bool("ingredients", details.Ingredients != nil),
		attribute.Bool("allergens", details.Allergens != nil),
	)
	return details
}

func trimmedText(node *html.Node, n int) *string {
	text, ok := htmlutil.NthText(node, n)
	if !ok {
		return nil
	}
	text = strings.TrimSpace(text)
	return &text
}

func description(doc *goquery.Document) *string {
	info := doc.Find(`div[class="productinfo"]`).First()
	if info.Length() == 0 {
		return nil
	}
	desc := info.Find(`div[class="description"]`).First()
	if desc.Length() == 0 {
		return nil
	}
	return trimmedText(desc.Get(0), 0)
}

func ingredAllergenField(doc *goquery.Document, n int) *string {
	container := doc.Find(`div[class*="ingred_allergen"]`).First()
	if container.Length() == 0 {
		return nil
	}
	return trimmedText(container.Get(0), n)
}
