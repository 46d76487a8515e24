package main

// @title Foodgram API
// @version 1.0
// @description Recipe sharing service: recipes, tags, ingredients, favorites, shopping lists and subscriptions

// @license.name MIT

// @host localhost:8000
// @BasePath /

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description Type "Token" followed by a space and the auth token.

// @tag.name Auth
// @tag.description Token login and logout

// @tag.name Users
// @tag.description Profiles and subscriptions

// @tag.name Recipes
// @tag.description Recipes, favorites and shopping cart

// @tag.name Catalog
// @tag.description Tags and ingredients

// @tag.name Admin
// @tag.description Admin-only endpoints

// @tag.name Health
// @tag.description Health check endpoints

//go:generate swag init -g docs.go -d ./,../../internal -o ../../docs
