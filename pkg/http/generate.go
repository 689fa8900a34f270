package http

import (
	_ "go.uber.org/mock/gomock"
)

//go:generate mockgen -package mocks -destination mocks/mock_http_client.go github.com/kasuboski/ratez/pkg/http HTTPClient
