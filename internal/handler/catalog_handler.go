package handler

import (
	"net/http"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/engine"
)

// categoriesHandler serves GET /v1/categories?q=.
func categoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")

		options := make([]domain.CategoryOption, 0, len(domain.CategoryOptions()))
		for _, o := range domain.CategoryOptions() {
			if o.Matches(q) {
				options = append(options, o)
			}
		}

		groups := make(map[domain.CategoryGroup]string)
		for _, g := range []domain.CategoryGroup{domain.GroupFood, domain.GroupBills, domain.GroupShopping, domain.GroupTravel} {
			groups[g] = g.Label()
		}

		writeJSON(w, http.StatusOK, domain.CategoriesResponse{Options: options, Groups: groups})
	}
}

// cardsHandler serves GET /v1/cards in evaluation order.
func cardsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards := engine.Cards()
		out := make([]domain.CardInfo, 0, len(cards))
		for _, c := range cards {
			out = append(out, domain.CardInfo{ID: c.ID(), Name: c.ID().Name(), RewardType: c.RewardType()})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
