package entity

type SweepOptions struct {
	DryRun             bool `json:"dryRun"`
	AutoCloseAfterDays *int `json:"autoCloseAfterDays" validate:"omitempty,gte=0"`
}

type SweepDecision struct {
	ID           string      `json:"id"`
	Status       OrderStatus `json:"status"`
	NextStatus   OrderStatus `json:"nextStatus"`
	BakeSaleDate string      `json:"bakeSaleDate,omitempty"`
	OverdueDays  int         `json:"overdueDays"`
}

type SweepResult struct {
	DryRun             bool            `json:"dryRun"`
	Found              int             `json:"found"`
	Updated            int             `json:"updated"`
	Cancelled          int             `json:"cancelled"`
	AutoCloseAfterDays *int            `json:"autoCloseAfterDays"`
	Results            []SweepDecision `json:"results"`
}

// Notification - письмо, поставленное в очередь на отправку.
type Notification struct {
	To        string
	Template  string
	Variables map[string]string
}

const (
	TemplateActionRequired      = "action_required"
	TemplateOrderAutoCancelled  = "order_auto_cancelled"
	TemplateBakeSaleCancelled   = "bake_sale_cancelled"
	TemplateBakeSaleRescheduled = "bake_sale_rescheduled"
)

// Теги кэша, сбрасываемые после изменения заказов.
const (
	CacheTagOrders    = "orders"
	CacheTagDashboard = "dashboard"
	CacheTagBakeSales = "bakeSales"
)

var OrderCacheTags = []string{CacheTagOrders, CacheTagDashboard, CacheTagBakeSales}
