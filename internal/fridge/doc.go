// Package fridge implements the HTTP client for the fridge vision backend.
// It covers the image-pair upload, the inventory item CRUD surface, and the
// confirm/reject calls used by the reconciliation engine. The backend's
// success and failure signaling is not trustworthy in isolation, so the
// upload path runs failure bodies through a recovery policy before deciding
// whether a call actually failed.
package fridge
