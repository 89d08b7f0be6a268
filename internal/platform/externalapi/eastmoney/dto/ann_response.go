package dto

// AnnResponse represents the JSON response of the security/ann
// announcements endpoint.
type AnnResponse struct {
	Success int     `json:"success"`
	Error   string  `json:"error"`
	Data    AnnData `json:"data"`
}

// AnnData wraps the announcement list.
type AnnData struct {
	List []AnnItem `json:"list"`
}

// AnnItem is one raw announcement row.
type AnnItem struct {
	ArtCode    string      `json:"art_code"`
	Title      string      `json:"title"`
	NoticeDate string      `json:"notice_date"`
	Codes      []AnnCode   `json:"codes"`
	Columns    []AnnColumn `json:"columns"`
}

// AnnCode links an announcement to a listed symbol.
type AnnCode struct {
	StockCode string `json:"stock_code"`
}

// AnnColumn is the exchange's own category tag for an announcement.
type AnnColumn struct {
	ColumnName string `json:"column_name"`
}
