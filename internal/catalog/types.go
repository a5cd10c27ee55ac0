package catalog

import (
	"catalog/internal/models"
	"catalog/internal/repo"
)

type CreateProductRequest struct {
	Name string `json:"name"`
}

type CreateProductResponse struct {
	ProductID string `json:"productID"`
	Name      string `json:"name"`
}

type CreateDevicesRequest struct {
	DeviceCount int `json:"deviceCount"`
}

type CreateDevicesResponse struct {
	AddedDevices []string `json:"addedDevices"`
}

type ControlRequest struct {
	Devices []repo.ControlCommand `json:"devices"`
}

type ControlResponse struct {
	Message         string                `json:"message"`
	UpdatedDevices  []repo.ControlCommand `json:"updatedDevices"`
	NotFoundDevices []string              `json:"notFoundDevices"`
}

type RunningRequest struct {
	ProductID string `json:"productID"`
}

type RunningResponse struct {
	Status              string          `json:"status"`
	RunningDevicesCount int             `json:"runningDevicesCount"`
	RunningDevices      []models.Device `json:"runningDevices"`
}

type DefinitionRequest struct {
	Components models.Components `json:"components"`
}

type UpdateComponentsRequest struct {
	Updates models.Components `json:"updates"`
}

type ComponentsResponse struct {
	Message    string            `json:"message"`
	Components models.Components `json:"components"`
}

// DataRequest — тело заглушек generate_data/get_data.
type DataRequest struct {
	ProductID string `json:"productID"`
}

const (
	msgProductNotFound    = "Product not found"
	msgComponentNotFound  = "Component not found"
	msgControlCompleted   = "Device control operation completed"
	msgDefinitionUpdated  = "Product definition updated successfully"
	msgComponentsUpdated  = "Components updated successfully"
	msgDefinitionDeleted  = "Product definition deleted successfully"
	msgComponentRemovedFm = "Component '%s' removed successfully"
	msgDataGenerated      = "Data generated successfully"
	msgDataRetrieved      = "Data retrieved successfully"
)
