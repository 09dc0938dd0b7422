package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex inv_01HV3K8Q4Z7M2N6P0R5S9T1W3X
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns an upper cased short ID with a prefix.
// Total length is capped at 12 characters, e.g. `INV-XYZ12A8Q`.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")
	id = strings.ReplaceAll(id, "_", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(prefix + id)
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_TENANT                = "tenant"
	UUID_PREFIX_USER                  = "user"
	UUID_PREFIX_SESSION               = "sess"
	UUID_PREFIX_WORKSPACE             = "ws"
	UUID_PREFIX_TEAM                  = "team"
	UUID_PREFIX_TEAM_MEMBER           = "tm"
	UUID_PREFIX_SOCIAL_ACCOUNT        = "sa"
	UUID_PREFIX_POST                  = "post"
	UUID_PREFIX_PLAN                  = "plan"
	UUID_PREFIX_PLAN_LIMIT            = "plim"
	UUID_PREFIX_SUBSCRIPTION          = "subs"
	UUID_PREFIX_INVOICE               = "inv"
	UUID_PREFIX_INVOICE_LINE_ITEM     = "inv_line"
	UUID_PREFIX_PAYMENT_METHOD        = "pm"
	UUID_PREFIX_FEATURE_FLAG          = "flag"
	UUID_PREFIX_WHATSAPP_PHONE_NUMBER = "wapn"
	UUID_PREFIX_WHATSAPP_TEMPLATE     = "watpl"
	UUID_PREFIX_WHATSAPP_MESSAGE      = "wamsg"
	UUID_PREFIX_AUDIT_LOG             = "audit"
	UUID_PREFIX_ANALYTICS_EVENT       = "evt"
	UUID_PREFIX_SYSTEM_EVENT          = "sysevt"
)

const (
	SHORT_ID_PREFIX_INVOICE = "INV-"
)
