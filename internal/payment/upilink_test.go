package payment

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUPILink(t *testing.T) {
	link := BuildUPILink("shop@okbank", "My Shop", 523.07, "Order ORD123")
	require.True(t, strings.HasPrefix(link, "upi://pay?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "shop@okbank", q.Get("pa"))
	assert.Equal(t, "My Shop", q.Get("pn"))
	assert.Equal(t, "523.07", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "Order ORD123", q.Get("tn"))
}
