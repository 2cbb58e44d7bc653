package bot

import "strings"

// Action identifies the handler a message routes to.
type Action int

const (
	ActionMenu Action = iota
	ActionWelcome
	ActionBalance
	ActionWatchAds
	ActionWithdraw
	ActionInstructions
)

// CallbackAction identifies the handler a button press routes to.
type CallbackAction int

const (
	CallbackUnknown CallbackAction = iota
	CallbackActionConfirmAd
	CallbackActionCancelAd
	CallbackActionWithdrawMethod
	CallbackActionCancelWithdraw
)

// RouteMessage maps inbound text to a handler by exact match. Anything
// unrecognized falls through to the menu.
func RouteMessage(text string) Action {
	switch text {
	case TextStart:
		return ActionWelcome
	case TextBalance, LabelBalance:
		return ActionBalance
	case LabelWatchAds:
		return ActionWatchAds
	case LabelWithdraw:
		return ActionWithdraw
	case LabelInstruction:
		return ActionInstructions
	default:
		return ActionMenu
	}
}

// RouteCallback maps a callback payload to a handler. For the
// withdraw_<method> family the matched method is returned as well.
func RouteCallback(data string) (CallbackAction, Method) {
	switch data {
	case CallbackConfirmAd:
		return CallbackActionConfirmAd, Method{}
	case CallbackCancelAd:
		return CallbackActionCancelAd, Method{}
	case CallbackCancelWithdraw:
		return CallbackActionCancelWithdraw, Method{}
	}

	if id, ok := strings.CutPrefix(data, withdrawPrefix); ok {
		for _, m := range Methods {
			if m.ID == id {
				return CallbackActionWithdrawMethod, m
			}
		}
	}

	return CallbackUnknown, Method{}
}
