package payment

import (
	"fmt"
	"net/url"
)

// BuildUPILink encodes a upi://pay deep link for handing off to the device's
// wallet application.
func BuildUPILink(payeeVPA, payeeName string, amount float64, note string) string {
	v := url.Values{}
	v.Set("pa", payeeVPA)
	v.Set("pn", payeeName)
	v.Set("am", fmt.Sprintf("%.2f", amount))
	v.Set("cu", "INR")
	v.Set("tn", note)
	return "upi://pay?" + v.Encode()
}
