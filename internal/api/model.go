// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

// A pointer so an empty password is accepted and only a missing one is rejected.
type analyzeRequest struct {
	Password *string `json:"password" binding:"required,max=1024"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type serviceResponse struct {
	Service  string `json:"service"`
	Standard string `json:"standard"`
}

type healthResponse struct {
	Status string `json:"status"`
}
