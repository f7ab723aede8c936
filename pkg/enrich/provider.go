package enrich

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Provider names accepted by NewLookup.
const (
	ProviderSentenceStack  = "sentencestack"
	ProviderFreeDictionary = "freedict"
	ProviderNone           = "none"
)

// NewLookup builds the lookup named by provider. ProviderNone yields nil, which
// turns network enrichment off.
func NewLookup(provider, baseURL string, timeout time.Duration, logger logrus.FieldLogger) (Lookup, error) {
	switch strings.ToLower(provider) {
	case "", ProviderSentenceStack:
		return NewSentenceStack(baseURL, timeout, logger), nil
	case ProviderFreeDictionary:
		return NewFreeDictionary(baseURL, timeout, logger), nil
	case ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown enrichment provider %q", provider)
	}
}
