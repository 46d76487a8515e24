package http

// ListRecipes godoc
// @Summary List recipes
// @Description Newest first. Favorites and cart filters apply to the caller.
// @Tags Recipes
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs, any of" collectionFormat(multi)
// @Param is_favorited query int false "1 to list the caller's favorites"
// @Param is_in_shopping_cart query int false "1 to list the caller's cart"
// @Success 200 {object} object{count=int,next=string,previous=string,results=[]query.RecipeView}
// @Router /api/recipes/ [get]
func (h *RecipeHandler) ListRecipesDoc() {}

// GetRecipe godoc
// @Summary Get a recipe
// @Tags Recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} query.RecipeView
// @Failure 404 {object} object{error=string}
// @Router /api/recipes/{id}/ [get]
func (h *RecipeHandler) GetRecipeDoc() {}

// CreateRecipe godoc
// @Summary Publish a recipe
// @Description image is a base64 data URI
// @Tags Recipes
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param request body domain.RecipeWrite true "Recipe"
// @Success 201 {object} query.RecipeView
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/recipes/ [post]
func (h *RecipeHandler) CreateRecipeDoc() {}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Supplied tags and ingredients replace the current ones
// @Tags Recipes
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body domain.RecipeWrite true "Changed fields"
// @Success 200 {object} query.RecipeView
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/recipes/{id}/ [patch]
func (h *RecipeHandler) UpdateRecipeDoc() {}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags Recipes
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/recipes/{id}/ [delete]
func (h *RecipeHandler) DeleteRecipeDoc() {}

// AddFavorite godoc
// @Summary Add a recipe to favorites
// @Tags Favorites
// @Security TokenAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} object{id=int,name=string,image=string,cooking_time=int}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/recipes/{id}/favorite/ [post]
func (h *RecipeHandler) AddFavoriteDoc() {}

// RemoveFavorite godoc
// @Summary Remove a recipe from favorites
// @Tags Favorites
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Router /api/recipes/{id}/favorite/ [delete]
func (h *RecipeHandler) RemoveFavoriteDoc() {}

// AddToShoppingCart godoc
// @Summary Add a recipe to the shopping cart
// @Tags Shopping cart
// @Security TokenAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} object{id=int,name=string,image=string,cooking_time=int}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/recipes/{id}/shopping_cart/ [post]
func (h *RecipeHandler) AddToShoppingCartDoc() {}

// RemoveFromShoppingCart godoc
// @Summary Remove a recipe from the shopping cart
// @Tags Shopping cart
// @Security TokenAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Router /api/recipes/{id}/shopping_cart/ [delete]
func (h *RecipeHandler) RemoveFromShoppingCartDoc() {}

// DownloadShoppingCart godoc
// @Summary Download the shopping list
// @Description Ingredients of every recipe in the cart, summed per name and unit
// @Tags Shopping cart
// @Security TokenAuth
// @Produce plain
// @Success 200 {string} string "Shopping_Cart.txt"
// @Router /api/recipes/download_shopping_cart/ [get]
func (h *RecipeHandler) DownloadShoppingCartDoc() {}

// ListTags godoc
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {array} domain.Tag
// @Router /api/tags/ [get]
func (h *RecipeHandler) ListTagsDoc() {}

// GetTag godoc
// @Summary Get a tag
// @Tags Tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} domain.Tag
// @Failure 404 {object} object{error=string}
// @Router /api/tags/{id}/ [get]
func (h *RecipeHandler) GetTagDoc() {}

// CreateTag godoc
// @Summary Create a tag
// @Tags Tags
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,color=string,slug=string} true "Tag"
// @Success 201 {object} domain.Tag
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /api/tags/ [post]
func (h *RecipeHandler) CreateTagDoc() {}

// ListIngredients godoc
// @Summary List ingredients
// @Tags Ingredients
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {array} domain.Ingredient
// @Router /api/ingredients/ [get]
func (h *RecipeHandler) ListIngredientsDoc() {}

// GetIngredient godoc
// @Summary Get an ingredient
// @Tags Ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} domain.Ingredient
// @Failure 404 {object} object{error=string}
// @Router /api/ingredients/{id}/ [get]
func (h *RecipeHandler) GetIngredientDoc() {}

// CreateIngredient godoc
// @Summary Create an ingredient
// @Tags Ingredients
// @Security TokenAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,measurement_unit=string} true "Ingredient"
// @Success 201 {object} domain.Ingredient
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /api/ingredients/ [post]
func (h *RecipeHandler) CreateIngredientDoc() {}

// ImportIngredients godoc
// @Summary Bulk import ingredients
// @Tags Ingredients
// @Security TokenAuth
// @Accept plain
// @Produce json
// @Param request body string true "name,measurement_unit rows"
// @Success 201 {object} object{imported=int}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /api/ingredients/import/ [post]
func (h *RecipeHandler) ImportIngredientsDoc() {}
