package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ecom-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCreateOrderFromCart(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	user, token := seedTestUser(db, "buyer@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	mouse := seedProduct(db, "Mouse", cat.ID, "19.99")
	pad := seedProduct(db, "Mousepad", cat.ID, "7.76")

	cart := seedCart(db, user.ID)
	seedCartItem(db, cart.ID, mouse.ID, 2)
	seedCartItem(db, cart.ID, pad.ID, 2)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/orders", nil, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["order_id"] == nil {
		t.Fatal("expected order_id in response")
	}
	// 2*19.99 + 2*7.76 = 55.50 exactly, no float drift
	if !decimalEqual(resp["total_price"], "55.50") {
		t.Errorf("expected total 55.50, got %v", resp["total_price"])
	}

	// Cart must be emptied, order items written
	var cartItemCount int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&cartItemCount)
	if cartItemCount != 0 {
		t.Errorf("expected cart emptied, got %d items", cartItemCount)
	}

	orderID, _ := uuid.Parse(resp["order_id"].(string))
	var orderItems []models.OrderItem
	db.Where("order_id = ?", orderID).Find(&orderItems)
	if len(orderItems) != 2 {
		t.Errorf("expected 2 order items, got %d", len(orderItems))
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	user, token := seedTestUser(db, "buyer@test.com", "customer")
	seedCart(db, user.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/orders", nil, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["error"] != "Cart is empty" {
		t.Errorf("expected 'Cart is empty', got %v", resp["error"])
	}

	// Nothing written
	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	if orderCount != 0 {
		t.Errorf("expected no orders, got %d", orderCount)
	}
}

func TestCreateOrderNoCart(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	_, token := seedTestUser(db, "buyer@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/orders", nil, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

// A cart item whose product vanished aborts the whole placement and
// leaves no partial order behind.
func TestCreateOrderMissingProductRollsBack(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	user, token := seedTestUser(db, "buyer@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	mouse := seedProduct(db, "Mouse", cat.ID, "19.99")

	cart := seedCart(db, user.ID)
	seedCartItem(db, cart.ID, mouse.ID, 1)
	// Item pointing at no product
	orphan := models.CartItem{ID: uuid.New(), CartID: cart.ID, ProductID: nil, Quantity: 1}
	db.Omit("Cart", "Product").Create(&orphan)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/orders", nil, token))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}

	var orderCount, orderItemCount, cartItemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&orderItemCount)
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&cartItemCount)
	if orderCount != 0 {
		t.Errorf("expected rollback to leave no orders, got %d", orderCount)
	}
	if orderItemCount != 0 {
		t.Errorf("expected rollback to leave no order items, got %d", orderItemCount)
	}
	if cartItemCount != 2 {
		t.Errorf("expected cart untouched with 2 items, got %d", cartItemCount)
	}
}

// Order items snapshot the price; changing the product afterwards must
// not affect an already placed order.
func TestOrderPriceSnapshotImmutable(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	user, token := seedTestUser(db, "buyer@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	prod := seedProduct(db, "Mouse", cat.ID, "19.99")

	cart := seedCart(db, user.ID)
	seedCartItem(db, cart.ID, prod.ID, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/orders", nil, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	orderID, _ := uuid.Parse(resp["order_id"].(string))

	// Raise the price after placement
	db.Model(&prod).Update("price", "29.99")

	var item models.OrderItem
	if err := db.Where("order_id = ?", orderID).First(&item).Error; err != nil {
		t.Fatalf("expected order item: %v", err)
	}
	want, _ := decimal.NewFromString("19.99")
	if !item.Price.Equal(want) {
		t.Errorf("expected snapshot price 19.99, got %s", item.Price)
	}
}

func TestGetOrdersOwnOnly(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	alice, aliceToken := seedTestUser(db, "alice@test.com", "customer")
	bob, _ := seedTestUser(db, "bob@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	prod := seedProduct(db, "Mouse", cat.ID, "19.99")

	seedOrder(db, alice.ID, prod.ID, "19.99")
	seedOrder(db, bob.ID, prod.ID, "19.99")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/orders", nil, aliceToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	got := parseResponseArray(w)
	if len(got) != 1 {
		t.Errorf("expected 1 order for alice, got %d", len(got))
	}
}

func TestGetOrderOfAnotherUserNotFound(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	owner, _ := seedTestUser(db, "owner@test.com", "customer")
	_, intruderToken := seedTestUser(db, "intruder@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	prod := seedProduct(db, "Mouse", cat.ID, "19.99")
	order := seedOrder(db, owner.ID, prod.ID, "19.99")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/orders/"+order.ID.String(), nil, intruderToken))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetAllOrdersAsAdmin(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	alice, _ := seedTestUser(db, "alice@test.com", "customer")
	bob, _ := seedTestUser(db, "bob@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	prod := seedProduct(db, "Mouse", cat.ID, "19.99")

	seedOrder(db, alice.ID, prod.ID, "19.99")
	seedOrder(db, bob.ID, prod.ID, "19.99")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/orders", nil, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	got := parseResponseArray(w)
	if len(got) != 2 {
		t.Errorf("expected 2 orders, got %d", len(got))
	}
}

func TestUpdateOrderStatusValidTransition(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	user, _ := seedTestUser(db, "buyer@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	prod := seedProduct(db, "Mouse", cat.ID, "19.99")
	order := seedOrder(db, user.ID, prod.ID, "19.99")

	body := map[string]string{"status": "Shipped"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/orders/"+order.ID.String()+"/status", body, adminToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Order
	db.First(&updated, "id = ?", order.ID)
	if updated.Status != models.OrderStatusShipped {
		t.Errorf("expected Shipped, got %s", updated.Status)
	}
}

func TestUpdateOrderStatusInvalidTransition(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	_, adminToken := seedTestUser(db, "admin@test.com", "admin")
	user, _ := seedTestUser(db, "buyer@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	prod := seedProduct(db, "Mouse", cat.ID, "19.99")
	order := seedOrder(db, user.ID, prod.ID, "19.99")
	db.Model(&order).Update("status", models.OrderStatusDelivered)

	body := map[string]string{"status": "Pending"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/orders/"+order.ID.String()+"/status", body, adminToken))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateOrderStatusAsCustomerForbidden(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	user, token := seedTestUser(db, "buyer@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	prod := seedProduct(db, "Mouse", cat.ID, "19.99")
	order := seedOrder(db, user.ID, prod.ID, "19.99")

	body := map[string]string{"status": "Shipped"}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/orders/"+order.ID.String()+"/status", body, token))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

// Full customer journey: browse, fill cart, place the order, attach a
// shipping address and pay.
func TestCheckoutEndToEnd(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)
	cartRouter := setupCartRouter(db)

	_, token := seedTestUser(db, "journey@test.com", "customer")
	cat := seedCategory(db, "Electronics")
	mouse := seedProduct(db, "Mouse", cat.ID, "19.99")
	pad := seedProduct(db, "Mousepad", cat.ID, "7.76")

	for _, add := range []map[string]interface{}{
		{"product_id": mouse.ID, "quantity": 2},
		{"product_id": pad.ID, "quantity": 2},
	} {
		w := httptest.NewRecorder()
		cartRouter.ServeHTTP(w, authRequest("POST", "/api/cart/items", add, token))
		if w.Code != http.StatusCreated {
			t.Fatalf("add to cart failed: %d: %s", w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/orders", nil, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("place order failed: %d: %s", w.Code, w.Body.String())
	}
	orderID := parseResponse(w)["order_id"].(string)

	shipping := map[string]string{
		"address":     "1 High Street",
		"city":        "London",
		"postal_code": "SW1A 1AA",
		"country":     "UK",
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/orders/"+orderID+"/shipping", shipping, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("add shipping failed: %d: %s", w.Code, w.Body.String())
	}

	payment := map[string]string{"payment_method": "Stripe", "payment_id": "tx_123"}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/orders/"+orderID+"/payment", payment, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("pay order failed: %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/orders/"+orderID, nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("get order failed: %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["is_paid"] != true {
		t.Error("expected order marked paid")
	}
	if !decimalEqual(resp["total_price"], "55.50") {
		t.Errorf("expected total 55.50, got %v", resp["total_price"])
	}
	if resp["shipping_address"] == nil {
		t.Error("expected shipping address attached")
	}
}
