package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/beerbudget/internal/domain/money"
)

type xmlArticle struct {
	Nr           string `xml:"nr"`
	Namn         string `xml:"Namn"`
	Namn2        string `xml:"Namn2"`
	Prisinklmoms string `xml:"Prisinklmoms"`
	Volymiml     string `xml:"Volymiml"`
}

// Parse reads an assortment document. Every "artikel" element directly
// under the root becomes a Product, in document order. Articles without a
// positive price cannot be bought and are left out.
func Parse(r io.Reader) ([]Product, error) {
	dec := xml.NewDecoder(r)
	var products []Product
	depth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse assortment: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth != 2 || t.Name.Local != "artikel" {
				continue
			}
			var a xmlArticle
			if err := dec.DecodeElement(&a, &t); err != nil {
				return nil, fmt.Errorf("failed to decode artikel: %w", err)
			}
			depth--

			p, ok, err := a.product()
			if err != nil {
				return nil, err
			}
			if ok {
				products = append(products, p)
			}
		case xml.EndElement:
			depth--
		}
	}

	return products, nil
}

func (a xmlArticle) product() (Product, bool, error) {
	p := Product{
		ID:    strings.TrimSpace(a.Nr),
		Name:  strings.TrimSpace(a.Namn),
		Name2: strings.TrimSpace(a.Namn2),
	}

	price, err := money.Parse(strings.TrimSpace(a.Prisinklmoms))
	if err != nil {
		return Product{}, false, fmt.Errorf("artikel %s (%s): price: %w", p.ID, p.DisplayName(), err)
	}
	if price <= 0 {
		return Product{}, false, nil
	}
	p.Price = price

	if v := strings.TrimSpace(a.Volymiml); v != "" {
		vol, err := decimal.NewFromString(v)
		if err != nil {
			return Product{}, false, fmt.Errorf("artikel %s (%s): volume: %w", p.ID, p.DisplayName(), err)
		}
		p.VolumeML = vol
	}

	return p, true, nil
}
