package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "store_orders_created_total", Help: "Total orders placed"},
	)
	OTPSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "store_otp_sent_total", Help: "Total password-reset OTPs issued"},
	)
	OTPVerified = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "store_otp_verified_total", Help: "Total successful OTP verifications"},
	)
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "store_emails_sent_total", Help: "Total emails delivered by the gateway"},
	)
	EmailsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "store_emails_failed_total", Help: "Total email deliveries that failed"},
	)
	SMSSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "store_sms_sent_total", Help: "Total SMS messages dispatched"},
	)
	SMSFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "store_sms_failed_total", Help: "Total SMS dispatches that failed"},
	)
)

func Register() {
	prometheus.MustRegister(OrdersCreated, OTPSent, OTPVerified, EmailsSent, EmailsFailed, SMSSent, SMSFailed)
}
