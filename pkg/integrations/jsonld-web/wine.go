package jsonldweb

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"
	"go.openly.dev/pointy"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"droscher.com/WineCellar/pkg/model"
)

var (
	ErrWineNotFound = errors.New("no wine found on page")

	vintagePattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// checked in order, sparkling first so "Crémant Rosé" is sparkling
	typeKeywords = []struct {
		wineType model.WineType
		keywords []string
	}{
		{model.Sparkling, []string{"sparkling", "champagne", "crémant", "cremant", "prosecco", "cava"}},
		{model.Rose, []string{"rosé", "rose", "rosado", "rosato"}},
		{model.White, []string{"white", "blanc", "bianco", "blanco"}},
		{model.Red, []string{"red", "rouge", "rosso", "tinto"}},
	}
)

const userAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:15.0) Gecko/20100101 Firefox/15.0.1"

type ProductJSON struct {
	Type               typeList        `json:"@type"`
	Graph              []ProductJSON   `json:"@graph"`
	Name               string          `json:"name"`
	Brand              named           `json:"brand"`
	Manufacturer       named           `json:"manufacturer"`
	CountryOfOrigin    named           `json:"countryOfOrigin"`
	Offers             offerList       `json:"offers"`
	AdditionalProperty []PropertyValue `json:"additionalProperty"`
}

type PropertyValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type WineScraped struct {
	Title string `attr:"content" selector:"meta[property='og:title']"`
}

// LookupWine scrapes pageURL for a schema.org Product, falling back to OpenGraph metadata.
func (j *JSONLDWebIntegration) LookupWine(pageURL string) (*model.WineDescriptor, error) {
	collector := colly.NewCollector(colly.UserAgent(userAgent))

	var (
		errs    error
		product *ProductJSON
		scraped WineScraped
	)

	collector.OnHTML("script[type='application/ld+json']", func(element *colly.HTMLElement) {
		if product != nil {
			return
		}

		found, err := findProduct([]byte(element.Text))
		if multierr.AppendInto(&errs, err) {
			j.logger.Warn("failed to parse JSON-LD block", zap.String("url", pageURL), zap.Error(err))

			return
		}

		product = found
	})

	collector.OnHTML("head", func(element *colly.HTMLElement) {
		multierr.AppendInto(&errs, element.Unmarshal(&scraped))
	})

	collector.OnError(func(response *colly.Response, err error) {
		j.logger.Error("error while scraping wine page", zap.String("url", response.Request.URL.String()), zap.Error(err))
	})

	j.logger.Info("scraping wine page", zap.String("url", pageURL))

	if err := collector.Visit(pageURL); err != nil {
		return nil, multierr.Append(errs, err)
	}

	var wine *model.WineDescriptor

	switch {
	case product != nil:
		wine = product.toDescriptor()
	case scraped.Title != "":
		wine = &model.WineDescriptor{Name: strings.TrimSpace(scraped.Title)}
	default:
		return nil, multierr.Append(fmt.Errorf("%w: %s", ErrWineNotFound, pageURL), errs)
	}

	wine.Year = extractVintage(wine.Name)
	wine.Type = detectType(wine.Name)

	j.logger.Info("finished scraping wine page", zap.String("url", pageURL), zap.String("name", wine.Name), zap.Error(errs))

	return wine, nil
}

// findProduct returns the first Product in a JSON-LD block, which may be a single object, an
// array of objects or an object holding a @graph.
func findProduct(data []byte) (*ProductJSON, error) {
	var candidates []ProductJSON

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &candidates); err != nil {
			return nil, err
		}
	} else {
		var single ProductJSON
		if err := json.Unmarshal([]byte(trimmed), &single); err != nil {
			return nil, err
		}

		candidates = append([]ProductJSON{single}, single.Graph...)
	}

	for i := range candidates {
		if candidates[i].Type.has("Product") {
			return &candidates[i], nil
		}
	}

	return nil, nil //nolint:nilnil // a block without a product is not an error
}

func (p *ProductJSON) toDescriptor() *model.WineDescriptor {
	wine := model.WineDescriptor{
		Name:     strings.TrimSpace(p.Name),
		Producer: p.Brand.Name,
		Price:    p.Offers.price(),
	}

	if wine.Producer == "" {
		wine.Producer = p.Manufacturer.Name
	}

	for _, property := range p.AdditionalProperty {
		if strings.EqualFold(property.Name, "region") || strings.EqualFold(property.Name, "appellation") {
			if value, ok := property.Value.(string); ok && value != "" {
				wine.Region = pointy.String(value)

				break
			}
		}
	}

	if wine.Region == nil && p.CountryOfOrigin.Name != "" {
		wine.Region = pointy.String(p.CountryOfOrigin.Name)
	}

	return &wine
}

func extractVintage(name string) int {
	match := vintagePattern.FindString(name)
	if match == "" {
		return 0
	}

	year, _ := strconv.Atoi(match)

	return year
}

func detectType(name string) model.WineType {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == ',' || r == '(' || r == ')' || r == '/'
	})

	for _, candidate := range typeKeywords {
		for _, keyword := range candidate.keywords {
			for _, word := range words {
				if word == keyword {
					return candidate.wineType
				}
			}
		}
	}

	return ""
}

type typeList []string

func (t *typeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = typeList{single}

		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}

	*t = many

	return nil
}

func (t typeList) has(name string) bool {
	for _, value := range t {
		if strings.EqualFold(value, name) || strings.HasSuffix(value, "/"+name) {
			return true
		}
	}

	return false
}

// named accepts either a plain string or an object with a name.
type named struct {
	Name string
}

func (n *named) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err == nil {
		n.Name = strings.TrimSpace(value)

		return nil
	}

	var object struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &object); err == nil {
		n.Name = strings.TrimSpace(object.Name)

		return nil
	}

	var list []named
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}

	if len(list) > 0 {
		n.Name = list[0].Name
	}

	return nil
}

type offer struct {
	Price   any `json:"price"`
	LowPrice any `json:"lowPrice"`
}

// offerList accepts a single Offer, an AggregateOffer or an array of offers.
type offerList []offer

func (o *offerList) UnmarshalJSON(data []byte) error {
	var single offer
	if err := json.Unmarshal(data, &single); err == nil {
		*o = offerList{single}

		return nil
	}

	var many []offer
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}

	*o = many

	return nil
}

func (o offerList) price() *float64 {
	for _, candidate := range o {
		for _, raw := range []any{candidate.Price, candidate.LowPrice} {
			switch value := raw.(type) {
			case float64:
				return pointy.Float64(value)
			case string:
				parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(value), ",", "."), 64)
				if err == nil {
					return pointy.Float64(parsed)
				}
			}
		}
	}

	return nil
}
