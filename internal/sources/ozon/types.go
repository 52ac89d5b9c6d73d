package ozon

// Request and response shapes for the Ozon Seller API endpoints the client
// touches. Only the fields the sync needs are modeled.

type productListRequest struct {
	Filter productListFilter `json:"filter"`
	LastID string            `json:"last_id"`
	Limit  int               `json:"limit"`
}

type productListFilter struct {
	Visibility string `json:"visibility"`
}

type productListResponse struct {
	Result struct {
		Items []struct {
			OfferID string `json:"offer_id"`
		} `json:"items"`
		Total  int    `json:"total"`
		LastID string `json:"last_id"`
	} `json:"result"`
}

type pricesInfoRequest struct {
	Filter offerIDFilter `json:"filter"`
	Limit  int           `json:"limit"`
	Cursor string        `json:"cursor,omitempty"`
}

type offerIDFilter struct {
	OfferID []string `json:"offer_id"`
}

type pricesInfoResponse struct {
	Items []struct {
		OfferID string `json:"offer_id"`
		Price   struct {
			Price string `json:"price"`
		} `json:"price"`
	} `json:"items"`
	Cursor string `json:"cursor"`
}

type stocksInfoRequest struct {
	Filter offerIDFilter `json:"filter"`
	Limit  int           `json:"limit"`
	Cursor string        `json:"cursor,omitempty"`
}

type stocksInfoResponse struct {
	Items []struct {
		OfferID string `json:"offer_id"`
		Stocks  []struct {
			Present int `json:"present"`
		} `json:"stocks"`
	} `json:"items"`
	Cursor string `json:"cursor"`
}

type importPricesRequest struct {
	Prices []importPrice `json:"prices"`
}

type importPrice struct {
	AutoActionEnabled string `json:"auto_action_enabled"`
	CurrencyCode      string `json:"currency_code"`
	OfferID           string `json:"offer_id"`
	OldPrice          string `json:"old_price"`
	Price             string `json:"price"`
}

type importStocksRequest struct {
	Stocks []importStock `json:"stocks"`
}

type importStock struct {
	OfferID string `json:"offer_id"`
	Stock   int    `json:"stock"`
}

type importResponse struct {
	Result []struct {
		OfferID string `json:"offer_id"`
		Updated bool   `json:"updated"`
		Errors  []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"result"`
}
