// Package extract turns raw rendered page text into a price observation.
// Everything here is pure: no I/O, no clock, deterministic output.
package extract

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"pricewatch/internal/domain"
)

// A rule is one named pattern sweep. Rules run in order over the whole
// text and contribute every capture-group match to the candidate pool,
// so individual rules can be tested and reordered independently.
type rule struct {
	name string
	re   *regexp.Regexp
}

var priceRules = []rule{
	{"rupee_symbol", regexp.MustCompile(`₹\s*(\d+(?:,\d+)*(?:\.\d{2})?)`)},
	{"rs_prefix", regexp.MustCompile(`(?i)Rs\.?\s*(\d+(?:,\d+)*(?:\.\d{2})?)`)},
	{"inr_prefix", regexp.MustCompile(`(?i)INR\s*(\d+(?:,\d+)*(?:\.\d{2})?)`)},
	{"json_price", regexp.MustCompile(`"price":\s*(\d+(?:\.\d{2})?)`)},
	{"json_selling_price", regexp.MustCompile(`"selling_price":\s*(\d+(?:\.\d{2})?)`)},
	{"json_offer_price", regexp.MustCompile(`"offer_price":\s*(\d+(?:\.\d{2})?)`)},
}

var mrpRules = []rule{
	{"mrp_text", regexp.MustCompile(`(?i)M\.?R\.?P\.?\s*₹?\s*(\d+(?:,\d+)*(?:\.\d{2})?)`)},
	{"json_mrp", regexp.MustCompile(`"mrp":\s*(\d+(?:\.\d{2})?)`)},
	{"json_original_price", regexp.MustCompile(`"original_price":\s*(\d+(?:\.\d{2})?)`)},
	{"strikethrough", regexp.MustCompile(`~~₹\s*(\d+(?:,\d+)*)`)},
}

// Unavailability markers; any hit flags the observation unavailable.
var unavailablePhrases = []string{
	"out of stock",
	"currently unavailable",
	"not available",
	"sold out",
	"notify me",
}

// Values outside (0, 100000) are treated as page noise (phone numbers,
// SKUs, ratings counts) and dropped.
const maxPlausiblePrice = 100000

// Extract parses raw page text into an observation. A false return
// means no parseable price — a valid terminal outcome, not an error.
func Extract(content string) (domain.Observation, bool) {
	prices := sweep(priceRules, content)
	if len(prices) == 0 {
		return domain.Observation{}, false
	}
	price := median(prices)

	mrp := math.Ceil(price * 1.1)
	if mrps := sweep(mrpRules, content); len(mrps) > 0 {
		mrp = median(mrps)
	}
	// A page can show an inverted pair (stale strikethrough, bad JSON);
	// the persisted invariant is mrp >= price.
	if mrp < price {
		mrp = price
	}

	return domain.Observation{
		Price:     price,
		MRP:       mrp,
		Available: !isUnavailable(content),
	}, true
}

func sweep(rules []rule, content string) []float64 {
	var out []float64
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatch(content, -1) {
			v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
			if err != nil {
				continue
			}
			if v > 0 && v < maxPlausiblePrice {
				out = append(out, v)
			}
		}
	}
	return out
}

// median picks the middle element (lower middle on even counts) to
// resist contamination from unrelated numbers on the page.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	return vals[(len(vals)-1)/2]
}

func isUnavailable(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range unavailablePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
