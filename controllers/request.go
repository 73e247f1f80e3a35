package controllers

import "github.com/yeremiapane/restaurant-backoffice/utils"

// invalidBody reports a body that could not be decoded at all.
func invalidBody(err error) error {
	return utils.ValidationFailed("Invalid request body", err.Error())
}
