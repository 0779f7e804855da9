package server

import "time"

const (
	AccountServiceName = "winecellar.v1.AccountService"
	CellarServiceName  = "winecellar.v1.CellarService"
	ReviewServiceName  = "winecellar.v1.ReviewService"
)

const (
	AccountServiceRegisterProcedure = "/winecellar.v1.AccountService/Register"
	AccountServiceLoginProcedure    = "/winecellar.v1.AccountService/Login"

	CellarServiceCreateCellarProcedure   = "/winecellar.v1.CellarService/CreateCellar"
	CellarServiceListCellarsProcedure    = "/winecellar.v1.CellarService/ListCellars"
	CellarServiceExploreCellarsProcedure = "/winecellar.v1.CellarService/ExploreCellars"
	CellarServiceGetCellarProcedure      = "/winecellar.v1.CellarService/GetCellar"
	CellarServiceAddShelfProcedure       = "/winecellar.v1.CellarService/AddShelf"
	CellarServiceRemoveShelfProcedure    = "/winecellar.v1.CellarService/RemoveShelf"
	CellarServiceAddBottlesProcedure     = "/winecellar.v1.CellarService/AddBottles"
	CellarServiceRemoveBottlesProcedure  = "/winecellar.v1.CellarService/RemoveBottles"
	CellarServiceArchiveBottlesProcedure = "/winecellar.v1.CellarService/ArchiveBottles"
	CellarServiceListInventoryProcedure  = "/winecellar.v1.CellarService/ListInventory"
	CellarServiceLookupWineProcedure     = "/winecellar.v1.CellarService/LookupWine"
	CellarServiceGetLabelProcedure       = "/winecellar.v1.CellarService/GetLabel"

	ReviewServiceGetReviewSummaryProcedure     = "/winecellar.v1.ReviewService/GetReviewSummary"
	ReviewServiceGetReviewDetailProcedure      = "/winecellar.v1.ReviewService/GetReviewDetail"
	ReviewServiceGetCommunityOverviewProcedure = "/winecellar.v1.ReviewService/GetCommunityOverview"
)

type Account struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
}

type Wine struct {
	Producer string  `json:"producer"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Year     int     `json:"year"`
	Region   *string `json:"region,omitempty"`
}

type Shelf struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Capacity  *int64 `json:"capacity,omitempty"`
	Occupancy int64  `json:"occupancy"`
}

type Cellar struct {
	ID      uint64   `json:"id"`
	Name    string   `json:"name"`
	Owner   *Account `json:"owner,omitempty"`
	Shelves []*Shelf `json:"shelves,omitempty"`
}

type InventoryGroup struct {
	Wine       *Wine   `json:"wine"`
	LabelImage *string `json:"labelImage,omitempty"`
	ShelfName  string  `json:"shelfName"`
	Quantity   int64   `json:"quantity"`
}

type Review struct {
	Rating     *float64  `json:"rating,omitempty"`
	Comment    *string   `json:"comment,omitempty"`
	ArchivedOn time.Time `json:"archivedOn"`
}

type CommunityWine struct {
	Wine          *Wine    `json:"wine"`
	LabelImage    *string  `json:"labelImage,omitempty"`
	AverageRating *float64 `json:"averageRating,omitempty"`
	ReviewCount   int64    `json:"reviewCount"`
}

// Selector names bottles either by descriptor id or by wine characteristics.
type Selector struct {
	DescriptorID *uint64 `json:"descriptorId,omitempty"`
	Wine         *Wine   `json:"wine,omitempty"`
}

type RegisterRequest struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	Secret    string `json:"secret"`
}

type RegisterResponse struct {
	Account *Account `json:"account"`
}

type LoginRequest struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	Secret    string `json:"secret"`
}

type LoginResponse struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
}

type CreateCellarRequest struct {
	Name string `json:"name"`
}

type CreateCellarResponse struct {
	Cellar *Cellar `json:"cellar"`
}

type ListCellarsRequest struct{}

type ListCellarsResponse struct {
	Cellars []*Cellar `json:"cellars"`
}

type ExploreCellarsRequest struct{}

type ExploreCellarsResponse struct {
	Cellars []*Cellar `json:"cellars"`
}

type GetCellarRequest struct {
	CellarID uint64 `json:"cellarId"`
}

type GetCellarResponse struct {
	Cellar *Cellar `json:"cellar"`
}

type AddShelfRequest struct {
	CellarID uint64 `json:"cellarId"`
	Name     string `json:"name"`
	Capacity *int64 `json:"capacity,omitempty"`
}

type AddShelfResponse struct {
	Shelf *Shelf `json:"shelf"`
}

type RemoveShelfRequest struct {
	CellarID uint64 `json:"cellarId"`
	ShelfID  uint64 `json:"shelfId"`
}

type RemoveShelfResponse struct{}

// AddBottlesRequest carries an optional label upload as raw bytes, base64 encoded on the wire.
type AddBottlesRequest struct {
	CellarID      uint64   `json:"cellarId"`
	ShelfID       uint64   `json:"shelfId"`
	Wine          *Wine    `json:"wine"`
	Price         *float64 `json:"price,omitempty"`
	Quantity      int      `json:"quantity"`
	LabelFileName string   `json:"labelFileName,omitempty"`
	Label         []byte   `json:"label,omitempty"`
}

type AddBottlesResponse struct {
	DescriptorIDs []uint64 `json:"descriptorIds"`
}

type RemoveBottlesRequest struct {
	CellarID uint64    `json:"cellarId"`
	Selector *Selector `json:"selector"`
	Quantity int       `json:"quantity"`
}

type RemoveBottlesResponse struct {
	Removed int `json:"removed"`
}

type ArchiveBottlesRequest struct {
	CellarID uint64    `json:"cellarId"`
	Selector *Selector `json:"selector"`
	Quantity int       `json:"quantity"`
	Rating   *float64  `json:"rating,omitempty"`
	Comment  *string   `json:"comment,omitempty"`
}

type ArchiveBottlesResponse struct {
	Archived int `json:"archived"`
}

type ListInventoryRequest struct {
	CellarID uint64 `json:"cellarId"`
	Sort     string `json:"sort,omitempty"`
	Order    string `json:"order,omitempty"`
}

type ListInventoryResponse struct {
	Groups []*InventoryGroup `json:"groups"`
}

type LookupWineRequest struct {
	URL string `json:"url"`
}

type LookupWineResponse struct {
	Wine  *Wine    `json:"wine"`
	Price *float64 `json:"price,omitempty"`
}

type GetReviewSummaryRequest struct {
	Wine *Wine `json:"wine"`
}

type GetReviewSummaryResponse struct {
	AverageRating *float64 `json:"averageRating,omitempty"`
	ReviewCount   int64    `json:"reviewCount"`
}

type GetReviewDetailRequest struct {
	Wine *Wine `json:"wine"`
}

type GetReviewDetailResponse struct {
	Reviews []*Review `json:"reviews"`
}

type GetCommunityOverviewRequest struct{}

type GetCommunityOverviewResponse struct {
	Wines []*CommunityWine `json:"wines"`
}

type GetLabelRequest struct {
	Reference string `json:"reference"`
}

// GetLabelResponse carries the image bytes, base64 encoded on the wire.
type GetLabelResponse struct {
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}
