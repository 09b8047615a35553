package dto

// FundNavResponse is the envelope of the /f10/lsjz net-asset-value history.
// Numeric values arrive as strings.
type FundNavResponse struct {
	ErrCode int    `json:"ErrCode"`
	ErrMsg  string `json:"ErrMsg"`
	Data    *struct {
		LSJZList []FundNavRow `json:"LSJZList"`
	} `json:"Data"`
}

// FundNavRow is one published NAV day.
type FundNavRow struct {
	Date      string `json:"FSRQ"`  // 浄値日付
	UnitNav   string `json:"DWJZ"`  // 単位浄値
	ChangePct string `json:"JZZZL"` // 浄値増長率 %
}

// FuturesListResponse is the contract listing used for main-contract
// resolution. The row flagged zl=1 is the currently most liquid contract.
type FuturesListResponse struct {
	List []FuturesListRow `json:"list"`
}

// FuturesListRow is one listed contract of a family.
type FuturesListRow struct {
	Code   string `json:"dm"` // 合約コード（IF2603 など）
	Name   string `json:"name"`
	IsMain int    `json:"zl"` // 1 = 主力合約
}
