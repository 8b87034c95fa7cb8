package fetch

import "net/url"

// Per-platform search URL templates. An unrecognized platform id yields
// an empty URL; callers skip those without logging an attempt.
func SearchURL(platformID, productName string) string {
	q := url.QueryEscape(productName)
	switch platformID {
	case "blinkit":
		return "https://blinkit.com/s/?q=" + q
	case "zepto":
		return "https://www.zeptonow.com/search?query=" + q
	case "swiggy":
		return "https://www.swiggy.com/instamart/search?query=" + q
	case "amazon":
		return "https://www.amazon.in/s?k=" + q + "&i=nowstore"
	case "flipkart":
		return "https://www.flipkart.com/search?q=" + q + "&otracker=search&marketplace=GROCERY"
	case "bigbasket":
		return "https://www.bigbasket.com/ps/?q=" + q
	case "jiomart":
		return "https://www.jiomart.com/search/" + q
	case "dmart":
		return "https://www.dmartready.com/search/" + q
	default:
		return ""
	}
}
