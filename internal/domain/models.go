// package domain/models.go
package domain

// Event is the canonical record of one ticketed event edition, built from
// one or more source documents.
type Event struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"` // yyyy-mm-dd

	// Financeiro
	TotalRevenue   float64 `json:"totalRevenue"`
	DoorRevenue    float64 `json:"doorRevenue"`
	BarRevenue     float64 `json:"barRevenue"`
	OnlineRevenue  float64 `json:"onlineRevenue"`
	PreSaleRevenue float64 `json:"preSaleRevenue"`

	// Público
	TotalAudience  int     `json:"totalAudience"`
	TotalPayingQty int     `json:"totalPayingQty"`
	Cortesias      int     `json:"cortesias"`
	PercentPaying  float64 `json:"percentPaying"`
	DoorQty        int     `json:"doorQty"`
	PreSaleQty     int     `json:"preSaleQty"`

	// Ticket médio
	AvgTicket float64 `json:"avgTicket"`
	DoorTM    float64 `json:"doorTM"`
	BarTM     float64 `json:"barTM"`

	DailySales    []DailySale    `json:"dailySales"`
	Coupons       map[string]int `json:"coupons,omitempty"`
	AvgAge        float64        `json:"avgAge,omitempty"`
	SalesChannels *SalesChannels `json:"salesChannels,omitempty"`

	// ManualData is joined in from the override store at read time.
	ManualData *ManualData `json:"manualData,omitempty"`
}

// DailySale is one row of a per-day pre-sale breakdown.
type DailySale struct {
	SalesDate  string  `json:"sales_date"`
	Weekday    string  `json:"weekday_pt"`
	SalesCount int     `json:"sales_count"`
	Revenue    float64 `json:"revenue_brl"`
}

// SalesChannels counts tickets per purchase channel.
type SalesChannels struct {
	POS  int `json:"pos"`
	Site int `json:"site"`
	App  int `json:"app"`
}

// ManualData holds values typed in by hand for an event. Nil fields are
// "not informed".
type ManualData struct {
	EventCost       *float64 `json:"eventCost,omitempty"`
	BarGrossRevenue *float64 `json:"barGrossRevenue,omitempty"`
	Location        *string  `json:"location,omitempty"`
}

// Merge returns m with every field informed in other replacing its own.
func (m ManualData) Merge(other ManualData) ManualData {
	if other.EventCost != nil {
		m.EventCost = other.EventCost
	}
	if other.BarGrossRevenue != nil {
		m.BarGrossRevenue = other.BarGrossRevenue
	}
	if other.Location != nil {
		m.Location = other.Location
	}
	return m
}

// IsEmpty reports whether no field is informed.
func (m ManualData) IsEmpty() bool {
	return m.EventCost == nil && m.BarGrossRevenue == nil && m.Location == nil
}

// ReportRow is one line of the persisted consolidated report.
type ReportRow struct {
	ID                 string  `json:"id"`
	Evento             string  `json:"evento"`
	Data               string  `json:"data"`
	Local              string  `json:"local"`
	PublicoTotal       int     `json:"publico_total"`
	Pagantes           int     `json:"pagantes"`
	RecBilheteriaTotal float64 `json:"rec_bilheteria_total"`
	RecPorta           float64 `json:"rec_porta"`
	RecTicketeria      float64 `json:"rec_ticketeria"`
	RecBarFinal        float64 `json:"rec_bar_final"`
	IdadeMedia         float64 `json:"idade_media"`
	CustoTotal         float64 `json:"custo_total"`
	RoiPercent         float64 `json:"roi_percent"`
}
