package pmsconnect

import (
	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/vendors/apaleo"
	"github.com/hoteldefend/pms-connect/vendors/cloudbeds"
	"github.com/hoteldefend/pms-connect/vendors/frontdesk"
	"github.com/hoteldefend/pms-connect/vendors/opera"
	"github.com/hoteldefend/pms-connect/vendors/protel"
	"github.com/hoteldefend/pms-connect/vendors/rmscloud"
)

// Factory helpers so callers can build adapters without importing vendor
// packages directly.

func OperaAdapter(cfg opera.Config) (core.PMSAdapter, error) {
	return opera.New(cfg)
}

func CloudbedsAdapter(cfg cloudbeds.Config) (core.PMSAdapter, error) {
	return cloudbeds.New(cfg)
}

func RMSCloudAdapter(cfg rmscloud.Config) (core.PMSAdapter, error) {
	return rmscloud.New(cfg)
}

func ProtelAdapter(cfg protel.Config) (core.PMSAdapter, error) {
	return protel.New(cfg)
}

func ApaleoAdapter(cfg apaleo.Config) (core.PMSAdapter, error) {
	return apaleo.New(cfg)
}

func FrontdeskAdapter(cfg frontdesk.Config) (core.PMSAdapter, error) {
	return frontdesk.New(cfg)
}
