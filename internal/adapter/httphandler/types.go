package httphandler

type (
	UpsertProductRequest struct {
		ItemName        string  `json:"itemName"`
		Quantity        float64 `json:"quantity"`
		OriginalPrice   float64 `json:"originalPrice"`
		DiscountedPrice float64 `json:"discountedPrice"`
		Barcode         string  `json:"barcode"`
	}

	Product struct {
		ItemName        string  `json:"itemName"`
		Quantity        float64 `json:"quantity"`
		OriginalPrice   float64 `json:"originalPrice"`
		DiscountedPrice float64 `json:"discountedPrice"`
		Barcode         int64   `json:"barcode"`
	}

	BarcodeLookupRequest struct {
		Barcode string `json:"barcode"`
	}

	BarcodeResponse struct {
		Barcode string `json:"barcode"`
	}

	CartItem struct {
		ProductName string  `json:"productName"`
		Quantity    float64 `json:"quantity"`
		UnitPrice   float64 `json:"unitPrice"`
	}

	CheckoutRequest struct {
		CustomerPhone string     `json:"customerPhone"`
		CustomerName  string     `json:"customerName"`
		Items         []CartItem `json:"items"`
		TotalAmount   float64    `json:"totalAmount"`
		OrderDate     int64      `json:"orderDate"`
	}

	CheckoutResponse struct {
		OrderID int64 `json:"orderId"`
	}

	OrderLine struct {
		ItemName string  `json:"itemName"`
		Quantity float64 `json:"quantity"`
		Price    float64 `json:"price"`
	}

	Order struct {
		ID            int64       `json:"id"`
		CustomerPhone string      `json:"customerPhoneNumber"`
		CustomerName  string      `json:"customerName,omitempty"`
		Products      []OrderLine `json:"products"`
		OrderTime     string      `json:"orderTime"`
		TotalAmount   float64     `json:"totalAmount"`
	}

	CustomerStats struct {
		CustomerPhone string  `json:"customerPhone"`
		Orders        int64   `json:"orders"`
		TotalAmount   float64 `json:"totalAmount"`
	}

	ErrorResponse struct {
		ErrorKind string `json:"errorKind"`
		Message   string `json:"message"`
		Details   any    `json:"details,omitempty"`
	}
)
