package parse

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"bruinmenu/lib/htmlutil"
	"bruinmenu/lib/scrapers/dining/model"
	"bruinmenu/lib/scrapers/dining/request"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ItemError struct {
	Section string
	Reason  string
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("dropped item in section %q: %s", e.Section, e.Reason)
}

// RecipeID takes the id out of a recipe link, which is the path segment
// right after "Recipes", ex. http://menu.dining.ucla.edu/Recipes/977026/6.
func RecipeID(link string) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	if !parsed.IsAbs() {
		return "", fmt.Errorf("recipe link %q is not an absolute url", link)
	}

	// segments keep their percent-encoding
	segments := strings.Split(strings.TrimPrefix(parsed.EscapedPath(), "/"), "/")
	if len(segments) < 2 || segments[1] == "" {
		return "", fmt.Errorf("recipe link %q does not have an id segment", link)
	}
	return segments[1], nil
}

// Menu parses a menu page into the fragment identified by `req`. It
// never fails: items without a usable recipe link are dropped and a page
// without any sections yields an empty menu.
func Menu(ctx context.Context, doc string, req request.MenuRequest) model.RestaurantMenu {
	ctx, span := tracer.Start(ctx, "parse:Menu", trace.WithAttributes(
		attribute.String("date", req.Date),
		attribute.String("restaurant", req.Restaurant.Name()),
		attribute.String("meal", req.Meal.Name()),
	))
	defer span.End()

	menu := model.RestaurantMenu{
		Date:       req.Date,
		Restaurant: req.Restaurant,
		Meal:       req.Meal,
		Sections:   []model.Section{},
	}

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return menu
	}

	parsed.Find(`li[class="sect-item"]`).Each(func(_ int, sel *goquery.Selection) {
		menu.Sections = append(menu.Sections, parseSection(ctx, span, sel))
	})

	span.SetAttributes(attribute.Int("sections", len(menu.Sections)))
	return menu
}

func parseSection(ctx context.Context, span trace.Span, sel *goquery.Selection) model.Section {
	name, _ := htmlutil.FirstText(sel.Get(0))
	section := model.Section{
		Name:  strings.TrimSpace(name),
		Items: []model.Item{},
	}

	sel.Find(`li[class="menu-item"]`).Each(func(_ int, itemSel *goquery.Selection) {
		item, err := parseItem(itemSel, section.Name)
		if err != nil {
			span.RecordError(err)
			droppedItems.Add(ctx, 1)
			return
		}
		section.Items = append(section.Items, item)
	})

	return section
}

func parseItem(sel *goquery.Selection, sectionName string) (model.Item, error) {
	link := sel.Find(`a[class="recipelink"]`).First()
	if link.Length() == 0 {
		return model.Item{}, &ItemError{Section: sectionName, Reason: "missing recipe link"}
	}

	href, ok := link.Attr("href")
	if !ok {
		return model.Item{}, &ItemError{Section: sectionName, Reason: "recipe link has no href"}
	}
	id, err := RecipeID(href)
	if err != nil {
		return model.Item{}, &ItemError{Section: sectionName, Reason: err.Error()}
	}

	name, ok := htmlutil.FirstText(link.Get(0))
	if !ok {
		return model.Item{}, &ItemError{Section: sectionName, Reason: "recipe link has no text"}
	}

	return model.Item{
		ID:         id,
		Name:       name,
		RecipeLink: href,
	}, nil
}
