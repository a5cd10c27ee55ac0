package catalog

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает REST API каталога на роутер.
func RegisterRoutes(r *mux.Router, h *Handler) {
	// продукты и определения
	r.HandleFunc("/product", h.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/product/{productID}/definition", h.SetDefinition).Methods(http.MethodPost)
	r.HandleFunc("/product/{productID}/definition", h.GetDefinition).Methods(http.MethodGet)
	r.HandleFunc("/product/{productID}/definition", h.DeleteDefinition).Methods(http.MethodDelete)
	r.HandleFunc("/product/{productID}/components", h.UpdateComponents).Methods(http.MethodPut)
	r.HandleFunc("/product/{productID}/components/{componentName}", h.DeleteComponent).Methods(http.MethodDelete)

	// устройства
	r.HandleFunc("/product/{productID}/devices", h.CreateDevices).Methods(http.MethodPost)
	r.HandleFunc("/product/{productID}/devices/control", h.ControlDevices).Methods(http.MethodPost)
	r.HandleFunc("/devices/running", h.RunningDevices).Methods(http.MethodPost)

	// заглушки
	r.HandleFunc("/generate_data", h.GenerateData).Methods(http.MethodPost)
	r.HandleFunc("/get_data", h.GetData).Methods(http.MethodPost)
}
