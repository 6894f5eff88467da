// Package loadertest writes small, fully known data directories for tests.
package loadertest

import (
	"os"
	"path/filepath"
	"testing"

	"ecommerce-dashboard/internal/loader"
)

// Dataset maps each source table to its CSV body, header included.
type Dataset map[loader.Table]string

const (
	Orders = `order_id,customer_id,order_status,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date
o1,c1,delivered,2018-01-10 10:00:00,2018-01-10 11:00:00,2018-01-10 15:00:00,2018-01-11 12:00:00,2018-01-20 00:00:00
o2,c2,delivered,2018-02-05 09:00:00,,,2018-02-10 10:00:00,
o3,c3,delivered,2018-03-01 08:00:00,,,2018-03-13 08:00:00,
o4,c1,delivered,2017-06-01 12:00:00,,,2017-06-04 12:00:00,
o5,c4,delivered,2017-07-15 12:00:00,,,2017-07-20 11:00:00,
o6,c2,shipped,2018-04-01 10:00:00,,,,
o7,c3,delivered,2018-05-02 10:00:00,,,not-a-date,
`

	OrderItems = `order_id,order_item_id,product_id,seller_id,shipping_limit_date,price,freight_value
o1,1,p1,s1,2018-01-12 00:00:00,60.00,5.00
o1,2,p2,s1,2018-01-12 00:00:00,40.00,5.00
o2,1,p3,s2,2018-02-07 00:00:00,50.00,7.50
o3,1,p1,s1,2018-03-03 00:00:00,100.00,10.00
o3,2,p4,s2,2018-03-03 00:00:00,50.00,10.00
o4,1,p2,s1,2017-06-03 00:00:00,80.00,8.00
o5,1,p3,s2,2017-07-17 00:00:00,120.00,12.00
o6,1,p1,s1,2018-04-03 00:00:00,999.00,0.00
o7,1,p5,s3,2018-05-04 00:00:00,30.00,3.00
o8,1,p1,s1,2018-06-01 00:00:00,oops,1.00
`

	Products = `product_id,product_category_name,product_weight_g
p1,electronics,500
p2,housewares,300
p3,electronics,200
p4,toys,100
p5,,50
`

	Customers = `customer_id,customer_unique_id,customer_zip_code_prefix,customer_city,customer_state
c1,u1,01000,sao paulo,SP
c2,u2,20000,rio de janeiro,RJ
c3,u3,30000,belo horizonte,MG
c4,u4,01001,campinas,SP
`

	Reviews = `review_id,order_id,review_score,review_comment_title,review_comment_message,review_creation_date,review_answer_timestamp
r1,o1,5,,"Great, fast",2018-01-12 00:00:00,2018-01-13 10:00:00
r2,o2,3,,,2018-02-11 00:00:00,
r3,o3,2,,,2018-03-14 00:00:00,
r4,o4,4,,,2017-06-05 00:00:00,
r5,o5,1,,,2017-07-21 00:00:00,
r6,o6,x,,,,
`

	Payments = `order_id,payment_sequential,payment_type,payment_installments,payment_value
o1,1,credit_card,2,110.00
o2,1,boleto,1,57.50
o3,1,credit_card,4,170.00
o4,1,voucher,1,88.00
o5,1,credit_card,3,132.00
o7,1,debit_card,1,33.00
`
)

// Sample returns the standard fixture: four delivered 2018 orders, two
// delivered 2017 orders and one shipped 2018 order.
func Sample() Dataset {
	return Dataset{
		loader.TableOrders:     Orders,
		loader.TableOrderItems: OrderItems,
		loader.TableProducts:   Products,
		loader.TableCustomers:  Customers,
		loader.TableReviews:    Reviews,
		loader.TablePayments:   Payments,
	}
}

// Write stores ds under dir. Tables absent from ds are not written.
func Write(tb testing.TB, dir string, ds Dataset) {
	tb.Helper()
	for t, body := range ds {
		if err := os.WriteFile(filepath.Join(dir, t.FileName()), []byte(body), 0o644); err != nil {
			tb.Fatalf("write %s: %v", t, err)
		}
	}
}

// WriteSample writes Sample into a fresh temporary directory.
func WriteSample(tb testing.TB) string {
	tb.Helper()
	dir := tb.TempDir()
	Write(tb, dir, Sample())
	return dir
}
