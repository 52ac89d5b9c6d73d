package market

// Request and response shapes for the Yandex.Market partner API endpoints
// the client touches. Only the fields the sync needs are modeled.

type offerMappingsResponse struct {
	Result struct {
		OfferMappingEntries []struct {
			Offer struct {
				ShopSKU string `json:"shopSku"`
			} `json:"offer"`
		} `json:"offerMappingEntries"`
		Paging paging `json:"paging"`
	} `json:"result"`
}

type offerPricesResponse struct {
	Result struct {
		OfferPrices []struct {
			ID    string `json:"id"`
			Price struct {
				Value float64 `json:"value"`
			} `json:"price"`
		} `json:"offerPrices"`
		Paging paging `json:"paging"`
	} `json:"result"`
}

type stocksRequest struct {
	WithTurnover bool `json:"withTurnover"`
}

type stocksResponse struct {
	Result struct {
		Warehouses []struct {
			Offers []struct {
				OfferID string `json:"offerId"`
				Stocks  []struct {
					Type  string `json:"type"`
					Count int    `json:"count"`
				} `json:"stocks"`
			} `json:"offers"`
		} `json:"warehouses"`
		Paging paging `json:"paging"`
	} `json:"result"`
}

type paging struct {
	NextPageToken string `json:"nextPageToken"`
}

type updateStocksRequest struct {
	SKUs []stockSKU `json:"skus"`
}

type stockSKU struct {
	SKU         string      `json:"sku"`
	WarehouseID string      `json:"warehouseId"`
	Items       []stockItem `json:"items"`
}

type stockItem struct {
	Count     int    `json:"count"`
	Type      string `json:"type"`
	UpdatedAt string `json:"updatedAt"`
}

type updatePricesRequest struct {
	Offers []offerPrice `json:"offers"`
}

type offerPrice struct {
	ID    string     `json:"id"`
	Price priceValue `json:"price"`
}

type priceValue struct {
	Value      int    `json:"value"`
	CurrencyID string `json:"currencyId"`
}

type statusResponse struct {
	Status string `json:"status"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}
