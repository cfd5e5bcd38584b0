package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/and161185/shopcart/internal/shop"
	"github.com/and161185/shopcart/internal/visual"
)

// formatINR renders whole rupees with Indian digit grouping: 1234567 -> ₹12,34,567.
func formatINR(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)

	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(groups, ",") + "," + tail
	}
	if neg {
		return "-₹" + s
	}
	return "₹" + s
}

func printItems(app *shop.Coordinator) {
	items := app.Catalog.Items()
	if len(items) == 0 {
		fmt.Println("No items available.")
		return
	}
	fmt.Printf("Items (%d):\n", len(items))
	for _, it := range items {
		v := visual.Classify(it.Name)
		fmt.Printf("  %s  #%d %s — %s, %s\n", v.Emoji, it.ID, it.Name, v.Category, formatINR(v.PriceHint))
	}
}

func printCart(app *shop.Coordinator) {
	lines := app.Cart.Lines()
	if len(lines) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	fmt.Printf("Cart (%d items):\n", len(lines))
	for _, line := range lines {
		name := "Unknown"
		if it, ok := app.Catalog.Item(line.ItemID); ok {
			name = it.Name
		}
		v := visual.Classify(name)
		fmt.Printf("  %s  item #%d %s — %s, %s\n", v.Emoji, line.ItemID, name, v.Category, formatINR(v.PriceHint))
	}
	fmt.Printf("Total: %s\n", formatINR(app.Cart.Total()))
}

func printOrders(app *shop.Coordinator) {
	orders := app.Orders.Orders()
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return
	}
	fmt.Printf("Order history (%d, newest first):\n", len(orders))
	for _, o := range orders {
		fmt.Printf("  Order #%d  cart %d  %s  PLACED\n",
			o.ID, o.CartID, o.CreatedAt.Local().Format(time.RFC822))
	}
}
