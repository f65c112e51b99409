package serppro

import "unicode/utf8"

// Device represents the device class a wordstat query is scoped to.
type Device string

const (
	// DeviceAll includes traffic from every device class.
	DeviceAll Device = "All"
	// DeviceDesktop restricts results to desktop traffic.
	DeviceDesktop Device = "Desktop"
	// DevicePhone restricts results to phone traffic.
	DevicePhone Device = "Phone"
	// DeviceTablet restricts results to tablet traffic.
	DeviceTablet Device = "Tablet"
)

// Valid reports whether the device is one of the values the API accepts.
func (d Device) Valid() bool {
	switch d {
	case DeviceAll, DeviceDesktop, DevicePhone, DeviceTablet:
		return true
	}
	return false
}

// Syntax represents the wordstat query-matching syntax.
type Syntax string

const (
	// SyntaxNone applies no special matching syntax.
	SyntaxNone Syntax = "None"
	// SyntaxWs is the plain wordstat match mode.
	SyntaxWs Syntax = "Ws"
	// SyntaxQuotes matches the exact phrase.
	SyntaxQuotes Syntax = "Quotes"
	// SyntaxQuotesExclamationMark matches the exact phrase with fixed word forms.
	SyntaxQuotesExclamationMark Syntax = "QuotesExclamationMark"
	// SyntaxQuotesSquareBrackets matches the exact phrase with fixed word order.
	SyntaxQuotesSquareBrackets Syntax = "QuotesSquareBrackets"
	// SyntaxQuotesExclamationMarkSquareBrackets fixes both word forms and order.
	SyntaxQuotesExclamationMarkSquareBrackets Syntax = "QuotesExclamationMarkSquareBrackets"
)

// Valid reports whether the syntax is one of the values the API accepts.
func (s Syntax) Valid() bool {
	switch s {
	case SyntaxNone, SyntaxWs, SyntaxQuotes, SyntaxQuotesExclamationMark,
		SyntaxQuotesSquareBrackets, SyntaxQuotesExclamationMarkSquareBrackets:
		return true
	}
	return false
}

// TaskType selects the wordstat data source.
type TaskType string

const (
	// TaskTypeRegular queries the regular Wordstat service.
	TaskTypeRegular TaskType = "Regular"
	// TaskTypeDirect queries frequency data through Yandex.Direct.
	TaskTypeDirect TaskType = "Direct"
)

// Valid reports whether the task type is one of the values the API accepts.
func (t TaskType) Valid() bool {
	return t == TaskTypeRegular || t == TaskTypeDirect
}

// Grouping selects the time bucket for history data.
type Grouping string

const (
	// GroupingNone disables time grouping.
	GroupingNone Grouping = "None"
	// GroupingDay groups history data by day.
	GroupingDay Grouping = "Day"
	// GroupingWeek groups history data by week.
	GroupingWeek Grouping = "Week"
	// GroupingMonth groups history data by month.
	GroupingMonth Grouping = "Month"
)

// Valid reports whether the grouping is one of the values the API accepts.
func (g Grouping) Valid() bool {
	switch g {
	case GroupingNone, GroupingDay, GroupingWeek, GroupingMonth:
		return true
	}
	return false
}

// ServiceType identifies one of the remote services for finance statistics.
type ServiceType string

const (
	ServiceWordstatFrequency       ServiceType = "WordstatFrequency"
	ServiceWordstatDirectFrequency ServiceType = "WordstatDirectFrequency"
	ServiceWordstatDeep            ServiceType = "WordstatDeep"
	ServiceWordstatDirectDeep      ServiceType = "WordstatDirectDeep"
	ServiceWordstatHistory         ServiceType = "WordstatHistory"
	ServiceYandexSerpPosition      ServiceType = "YandexSerpPosition"
	ServiceGoogleSerpPosition      ServiceType = "GoogleSerpPosition"
	ServiceYandexIndexation        ServiceType = "YandexIndexation"
	ServiceGoogleIndexation        ServiceType = "GoogleIndexation"
	ServiceYandexSerpUrls          ServiceType = "YandexSerpUrls"
	ServiceGoogleSerpUrls          ServiceType = "GoogleSerpUrls"
)

// Valid reports whether the service type is one of the values the API accepts.
func (s ServiceType) Valid() bool {
	switch s {
	case ServiceWordstatFrequency, ServiceWordstatDirectFrequency,
		ServiceWordstatDeep, ServiceWordstatDirectDeep, ServiceWordstatHistory,
		ServiceYandexSerpPosition, ServiceGoogleSerpPosition,
		ServiceYandexIndexation, ServiceGoogleIndexation,
		ServiceYandexSerpUrls, ServiceGoogleSerpUrls:
		return true
	}
	return false
}

// SearchSystem identifies the search engine a region belongs to.
type SearchSystem string

const (
	// SearchSystemYandex selects the Yandex region database.
	SearchSystemYandex SearchSystem = "Yandex"
	// SearchSystemGoogle selects the Google region database.
	SearchSystemGoogle SearchSystem = "Google"
)

// Valid reports whether the search system is one of the values the API accepts.
func (s SearchSystem) Valid() bool {
	return s == SearchSystemYandex || s == SearchSystemGoogle
}

// RegionSearchType selects how a region lookup matches its input.
type RegionSearchType string

const (
	// RegionSearchByName matches regions by name.
	RegionSearchByName RegionSearchType = "Name"
	// RegionSearchByCode matches regions by numeric code.
	RegionSearchByCode RegionSearchType = "Code"
)

// Valid reports whether the search type is one of the values the API accepts.
func (t RegionSearchType) Valid() bool {
	return t == RegionSearchByName || t == RegionSearchByCode
}

// FrequencyRequest describes a wordstat frequency lookup.
// Zero-valued fields are omitted from the wire payload.
type FrequencyRequest struct {
	Query    string   `json:"query,omitempty"`
	Region   string   `json:"region,omitempty"` // comma-separated region codes, e.g. "225" or "225,213"
	Device   Device   `json:"device,omitempty"`
	TaskType TaskType `json:"task_type,omitempty"`
	Syntax   Syntax   `json:"syntax,omitempty"`
}

func (r *FrequencyRequest) applyDefaults() {
	if r.Device == "" {
		r.Device = DeviceAll
	}
	if r.TaskType == "" {
		r.TaskType = TaskTypeRegular
	}
	if r.Syntax == "" {
		r.Syntax = SyntaxWs
	}
}

func (r *FrequencyRequest) validate() error {
	if !r.Device.Valid() {
		return &ValidationError{Field: "device", Reason: "unknown device: " + string(r.Device)}
	}
	if !r.TaskType.Valid() {
		return &ValidationError{Field: "task_type", Reason: "unknown task type: " + string(r.TaskType)}
	}
	if !r.Syntax.Valid() {
		return &ValidationError{Field: "syntax", Reason: "unknown syntax: " + string(r.Syntax)}
	}
	return nil
}

// DeepRequest describes a wordstat deep-data lookup (associated and popular queries).
type DeepRequest struct {
	Query    string   `json:"query,omitempty"`
	Region   string   `json:"region,omitempty"`
	Device   Device   `json:"device,omitempty"`
	TaskType TaskType `json:"task_type,omitempty"`
}

func (r *DeepRequest) applyDefaults() {
	if r.Device == "" {
		r.Device = DeviceAll
	}
	if r.TaskType == "" {
		r.TaskType = TaskTypeRegular
	}
}

func (r *DeepRequest) validate() error {
	if !r.Device.Valid() {
		return &ValidationError{Field: "device", Reason: "unknown device: " + string(r.Device)}
	}
	if !r.TaskType.Valid() {
		return &ValidationError{Field: "task_type", Reason: "unknown task type: " + string(r.TaskType)}
	}
	return nil
}

// History query length bounds enforced before any network call.
const (
	minHistoryQueryLen = 1
	maxHistoryQueryLen = 3000
)

// HistoryRequest describes a wordstat history lookup. Query is required and
// must be between 1 and 3000 characters. Dates use the YYYY-MM-DD format.
type HistoryRequest struct {
	Query     string   `json:"query"`
	Region    string   `json:"region,omitempty"`
	Device    Device   `json:"device,omitempty"`
	Grouping  Grouping `json:"grouping,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
}

func (r *HistoryRequest) applyDefaults() {
	if r.Device == "" {
		r.Device = DeviceAll
	}
	if r.Grouping == "" {
		r.Grouping = GroupingMonth
	}
}

func (r *HistoryRequest) validate() error {
	// Counted in characters, not bytes, so Cyrillic queries get the
	// same budget the API grants them.
	if n := utf8.RuneCountInString(r.Query); n < minHistoryQueryLen || n > maxHistoryQueryLen {
		return &ValidationError{Field: "query", Reason: "query must be between 1 and 3000 characters"}
	}
	if !r.Device.Valid() {
		return &ValidationError{Field: "device", Reason: "unknown device: " + string(r.Device)}
	}
	if !r.Grouping.Valid() {
		return &ValidationError{Field: "grouping", Reason: "unknown grouping: " + string(r.Grouping)}
	}
	return nil
}

// FinanceStatsRequest describes a usage-statistics lookup over a date range.
type FinanceStatsRequest struct {
	ServiceType ServiceType `json:"service_type,omitempty"`
	StartDate   string      `json:"start_date,omitempty"`
	EndDate     string      `json:"end_date,omitempty"`
}

func (r *FinanceStatsRequest) validate() error {
	if r.ServiceType != "" && !r.ServiceType.Valid() {
		return &ValidationError{Field: "service_type", Reason: "unknown service type: " + string(r.ServiceType)}
	}
	return nil
}

// FrequencyResponse holds the result of a frequency lookup.
type FrequencyResponse struct {
	Frequency int `json:"frequency"`
	// Invalid and Date are only populated by some API deployments.
	Invalid bool   `json:"is_invalid,omitempty"`
	Date    string `json:"date,omitempty"`
}

// DeepItem is one associated or popular phrase with its frequency.
// Frequency is a string on the wire.
type DeepItem struct {
	Frequency string `json:"frequency"`
	Phrase    string `json:"phrase"`
}

// DeepResponse holds the result of a deep-data lookup.
type DeepResponse struct {
	Associations []DeepItem `json:"associations"`
	Popular      []DeepItem `json:"popular"`
	Invalid      bool       `json:"is_invalid,omitempty"`
	Date         string     `json:"date,omitempty"`
}

// HistoryItem is one time bucket of history data.
type HistoryItem struct {
	Date                  string  `json:"date"`
	Frequency             int     `json:"frequency"`
	AllRequestsPercentage float64 `json:"all_requests_percentage"`
}

// HistoryResponse holds the result of a history lookup.
type HistoryResponse struct {
	Items   []HistoryItem `json:"items"`
	Invalid bool          `json:"is_invalid,omitempty"`
	Date    string        `json:"date,omitempty"`
}

// Region is one entry from the region databases.
type Region struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// FinanceStats holds usage counters for calls made against the API.
type FinanceStats struct {
	RequestCount int `json:"request_count"`
}
