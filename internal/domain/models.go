package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrUnknownRole   = errors.New("unknown role")
)

type Metric string

const (
	MetricInventory       Metric = "inventory"
	MetricOrders          Metric = "orders"
	MetricSupplyChainCost Metric = "supply_chain_cost"
	MetricSurplus         Metric = "surplus"
)

// Metrics lists every collection in the order the metric selector shows them.
var Metrics = []Metric{
	MetricInventory,
	MetricOrders,
	MetricSupplyChainCost,
	MetricSurplus,
}

func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Table is the SQLite table (and JSON key) holding the metric's records.
func (m Metric) Table() string { return string(m) }

// HasRole reports whether records of this metric are split per supply chain role.
func (m Metric) HasRole() bool { return m != MetricSupplyChainCost }

// Title is the metric name with its first letter capitalized.
func (m Metric) Title() string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type Role string

const (
	RoleConsumer    Role = "Consumer"
	RoleRetailer    Role = "Retailer"
	RoleWholesaler  Role = "Wholesaler"
	RoleDistributor Role = "Distributor"
	RoleFactory     Role = "Factory"
)

// Roles is the canonical order series are emitted in, downstream first.
var Roles = []Role{
	RoleConsumer,
	RoleRetailer,
	RoleWholesaler,
	RoleDistributor,
	RoleFactory,
}

func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Record is one week of one metric for one role (or the whole chain for cost).
type Record struct {
	Year    string  `json:"year"`
	GameNum int     `json:"game_num"`
	WeekNum int     `json:"week_num"`
	Role    Role    `json:"role,omitempty"`
	Value   float64 `json:"value"`
}

// Dataset holds the four normalized collections. It is never mutated after load.
type Dataset map[Metric][]Record

func (d Dataset) Len() int {
	n := 0
	for _, recs := range d {
		n += len(recs)
	}
	return n
}

type Selection struct {
	Year    string
	GameNum int
	Metric  Metric
}

type Point struct {
	WeekNum int     `json:"week_num"`
	Value   float64 `json:"value"`
}

type Series struct {
	Label  string  `json:"label"`
	Points []Point `json:"points"`
	Hue    int     `json:"hue"`
}

// Values returns the y values in point order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

type Chart struct {
	Title              string   `json:"title"`
	Metric             Metric   `json:"metric"`
	XAxis              string   `json:"x_axis"`
	YAxis              string   `json:"y_axis"`
	Labels             []int    `json:"labels"`
	Datasets           []Series `json:"datasets"`
	GameSelectDisabled bool     `json:"game_select_disabled"`
}

type Options struct {
	Years          []string `json:"years"`
	GameNums       []int    `json:"game_nums"`
	Metrics        []Metric `json:"metrics"`
	DefaultYear    string   `json:"default_year"`
	DefaultGameNum int      `json:"default_game_num"`
}

// ImportRun is one execution of the data preparation tool.
type ImportRun struct {
	ID        string // nanoid
	SourceDir string
	FileCount int
	RowCount  int
	CreatedAt time.Time
}
