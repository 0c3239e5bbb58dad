package main

//go:generate swag init -g cmd/trench/main.go -o docs

// @title           Trench Signal API
// @version         0.1.0
// @description     Message intake, signal pipeline status, and daily runner rankings.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
