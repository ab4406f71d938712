package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
)

func TestPurchase_UnmarshalAliases(t *testing.T) {
	var p domain.Purchase
	body := `{"amountAED":42.5,"location":"domestic","channel":"wallet","category":"online_food"}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Channel != domain.ChannelDigitalWallet {
		t.Errorf("expected wallet alias to map to digital_wallet, got %s", p.Channel)
	}
	if p.Category != domain.CategoryOnlineDining {
		t.Errorf("expected online_food alias to map to online_dining, got %s", p.Category)
	}

	if err := json.Unmarshal([]byte(`{"channel":"pos","category":"instore_shopping"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Channel != domain.ChannelInPerson || p.Category != domain.CategoryInStoreShopping {
		t.Errorf("unexpected alias mapping: %s %s", p.Channel, p.Category)
	}
}

func TestPurchase_Validate(t *testing.T) {
	valid := domain.Purchase{AmountAED: -5, Location: domain.LocationInternational, Channel: domain.ChannelOnline, Category: domain.CategoryOther}
	if err := valid.Validate(); err != nil {
		t.Fatalf("a negative amount is not a validation error, got %v", err)
	}

	cases := map[string]domain.Purchase{
		"location": {Location: "moon", Channel: domain.ChannelOnline, Category: domain.CategoryOther},
		"channel":  {Location: domain.LocationDomestic, Channel: "fax", Category: domain.CategoryOther},
		"category": {Location: domain.LocationDomestic, Channel: domain.ChannelOnline, Category: "casino"},
	}
	for field, p := range cases {
		t.Run(field, func(t *testing.T) {
			var ve *domain.ErrValidation
			if err := p.Validate(); !errors.As(err, &ve) || ve.Field != field {
				t.Fatalf("expected validation error on %s, got %v", field, err)
			}
		})
	}
}

func TestCategories_AllValid(t *testing.T) {
	cats := domain.Categories()
	if len(cats) != 13 {
		t.Fatalf("expected 13 categories, got %d", len(cats))
	}
	seen := map[domain.Category]bool{}
	for _, c := range cats {
		if !c.Valid() {
			t.Errorf("%s reported invalid", c)
		}
		if seen[c] {
			t.Errorf("%s listed twice", c)
		}
		seen[c] = true
	}
}
