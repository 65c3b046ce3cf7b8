package main

// @title POS Backend API
// @version 1.0
// @description Point-of-sale and inventory backend with an append-only stock ledger
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/mextra/pos-backend
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/mextra/pos-backend/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Catalog
// @tag.description Product and location management endpoints

// @tag.name Stock
// @tag.description Goods receipt and transfer endpoints

// @tag.name Sales
// @tag.description Sale transaction endpoints

// @tag.name Reports
// @tag.description Read-side aggregation endpoints

// @tag.name Settings
// @tag.description Company settings endpoints

// @tag.name Users
// @tag.description Staff account endpoints

// @tag.name Health
// @tag.description Health check endpoints
