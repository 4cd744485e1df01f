package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. The storefront UI maps messages by code.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // sign-in required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email or password
	AuthSessionExpired     = "AUTH_SESSION_EXPIRED"     // backend token expired
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Catalog (PRODUCT_, CATEGORY_) ====================
	ProductNotFound      = "PRODUCT_NOT_FOUND"
	ProductOutOfStock    = "PRODUCT_OUT_OF_STOCK"
	ProductStockExceeded = "PRODUCT_STOCK_EXCEEDED"
	CategoryNotFound     = "CATEGORY_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartInvalidQuantity = "CART_INVALID_QUANTITY"
	CartInvalidProduct  = "CART_INVALID_PRODUCT"
	CartEmpty           = "CART_EMPTY"

	// ==================== Checkout (ORDER_) ====================
	OrderInvalidCustomer = "ORDER_INVALID_CUSTOMER"

	// ==================== Favorites (FAVORITE_) ====================
	FavoriteAlreadyExists = "FAVORITE_ALREADY_EXISTS"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadInvalidFolder   = "UPLOAD_INVALID_FOLDER"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalStoreError    = "INTERNAL_STORE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // backend answered with 5xx
	InternalUnavailable   = "INTERNAL_UNAVAILABLE"    // backend unreachable or breaker open
	InternalConfigMissing = "INTERNAL_CONFIG_MISSING" // optional integration not configured
)
