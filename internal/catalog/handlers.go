package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"catalog/internal/logs"
	"catalog/internal/metrics"
	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repo"
)

// ProductStore — то, что API нужно от хранилища продуктов.
type ProductStore interface {
	Create(ctx context.Context, name string) (*models.Product, error)
	Get(ctx context.Context, productID string) (*models.Product, error)
	SetComponents(ctx context.Context, productID string, c models.Components) error
	UpdateComponents(ctx context.Context, productID string, updates models.Components) (models.Components, error)
	ClearComponents(ctx context.Context, productID string) error
	DeleteComponent(ctx context.Context, productID, name string) error
}

// DeviceStore — то, что API нужно от хранилища устройств.
type DeviceStore interface {
	CreateBatch(ctx context.Context, productID string, count int) ([]string, error)
	Control(ctx context.Context, productID string, cmds []repo.ControlCommand) (*repo.ControlResult, error)
	Running(ctx context.Context, productID string) ([]models.Device, error)
}

type Handler struct {
	products ProductStore
	devices  DeviceStore
}

func NewHandler(products ProductStore, devices DeviceStore) *Handler {
	return &Handler{products: products, devices: devices}
}

// POST /product
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.products.Create(r.Context(), req.Name)
	if err != nil {
		h.fail(w, r, "create product", err)
		return
	}
	metrics.ProductsCreatedTotal.Inc()
	models.WriteJSON(w, http.StatusCreated, CreateProductResponse{ProductID: p.ProductID, Name: p.Name})
}

// POST /product/{productID}/devices
func (h *Handler) CreateDevices(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	var req CreateDevicesRequest
	if !decode(w, r, &req) {
		return
	}
	ids, err := h.devices.CreateBatch(r.Context(), productID, req.DeviceCount)
	metrics.DevicesCreatedTotal.Add(float64(len(ids)))
	if err != nil {
		if len(ids) > 0 {
			entry(r).WithFields(logrus.Fields{
				"productID": productID,
				"created":   len(ids),
				"requested": req.DeviceCount,
			}).Warn("bulk device create stopped partway")
		}
		h.fail(w, r, "create devices", err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, CreateDevicesResponse{AddedDevices: ids})
}

// POST /product/{productID}/devices/control
func (h *Handler) ControlDevices(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	var req ControlRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.devices.Control(r.Context(), productID, req.Devices)
	if err != nil {
		h.fail(w, r, "control devices", err)
		return
	}
	for _, c := range res.Updated {
		metrics.RecordControl(models.ActiveFor(c.Action))
	}
	metrics.RecordControlMiss(len(res.NotFound))
	models.WriteJSON(w, http.StatusOK, ControlResponse{
		Message:         msgControlCompleted,
		UpdatedDevices:  res.Updated,
		NotFoundDevices: res.NotFound,
	})
}

// POST /devices/running
func (h *Handler) RunningDevices(w http.ResponseWriter, r *http.Request) {
	var req RunningRequest
	if !decode(w, r, &req) {
		return
	}
	devs, err := h.devices.Running(r.Context(), req.ProductID)
	if err != nil {
		h.fail(w, r, "running devices", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, RunningResponse{
		Status:              "success",
		RunningDevicesCount: len(devs),
		RunningDevices:      devs,
	})
}

// POST /product/{productID}/definition
func (h *Handler) SetDefinition(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	var req DefinitionRequest
	if !decode(w, r, &req) {
		return
	}
	err := h.products.SetComponents(r.Context(), productID, req.Components)
	recordComponentOp("set", err)
	if err != nil {
		h.fail(w, r, "set definition", err)
		return
	}
	models.WriteMessage(w, http.StatusOK, msgDefinitionUpdated)
}

// GET /product/{productID}/definition
func (h *Handler) GetDefinition(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	p, err := h.products.Get(r.Context(), productID)
	if err != nil {
		h.fail(w, r, "get definition", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, p)
}

// PUT /product/{productID}/components
func (h *Handler) UpdateComponents(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	var req UpdateComponentsRequest
	if !decode(w, r, &req) {
		return
	}
	comps, err := h.products.UpdateComponents(r.Context(), productID, req.Updates)
	recordComponentOp("update", err)
	if err != nil {
		h.fail(w, r, "update components", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, ComponentsResponse{
		Message:    msgComponentsUpdated,
		Components: comps,
	})
}

// DELETE /product/{productID}/definition
func (h *Handler) DeleteDefinition(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productID"]
	err := h.products.ClearComponents(r.Context(), productID)
	recordComponentOp("clear", err)
	if err != nil {
		h.fail(w, r, "delete definition", err)
		return
	}
	models.WriteMessage(w, http.StatusOK, msgDefinitionDeleted)
}

// DELETE /product/{productID}/components/{componentName}
func (h *Handler) DeleteComponent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["componentName"]
	err := h.products.DeleteComponent(r.Context(), vars["productID"], name)
	recordComponentOp("delete", err)
	if err != nil {
		h.fail(w, r, "delete component", err)
		return
	}
	models.WriteMessage(w, http.StatusOK, fmt.Sprintf(msgComponentRemovedFm, name))
}

// POST /generate_data — заглушка: генерации данных нет.
func (h *Handler) GenerateData(w http.ResponseWriter, r *http.Request) {
	var req DataRequest
	if !decode(w, r, &req) {
		return
	}
	models.WriteMessage(w, http.StatusOK, msgDataGenerated)
}

// POST /get_data — заглушка.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	var req DataRequest
	if !decode(w, r, &req) {
		return
	}
	models.WriteMessage(w, http.StatusOK, msgDataRetrieved)
}

// fail переводит ошибку хранилища в HTTP-ответ.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		models.WriteMessage(w, http.StatusNotFound, msgProductNotFound)
	case errors.Is(err, repo.ErrComponentNotFound):
		models.WriteMessage(w, http.StatusNotFound, msgComponentNotFound)
	default:
		entry(r).WithField("op", op).Errorf("store error: %v", err)
		models.WriteError(w, http.StatusInternalServerError, err)
	}
}

// decode читает JSON-тело; пустое тело считается {}.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		models.WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	return true
}

func entry(r *http.Request) *logrus.Entry {
	return logs.Logger.WithField("reqid", middleware.GetRequestID(r))
}

func recordComponentOp(op string, err error) {
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrProductNotFound), errors.Is(err, repo.ErrComponentNotFound):
		status = "not_found"
	default:
		status = "error"
	}
	metrics.ComponentOperationsTotal.WithLabelValues(op, status).Inc()
}
