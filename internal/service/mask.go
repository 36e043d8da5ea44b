package service

// cardMask replaces the middle digits of a card number in every stored
// or displayed identifier.
const cardMask = "********"

// MaskCardNumber returns the display form of a card number: first 4 +
// fixed mask + last 4. Inputs too short to mask safely collapse to
// "****". The masked form is distinct from the digest and is the only
// shape of a card number that ever reaches the transaction log.
func MaskCardNumber(cardNumber string) string {
	if len(cardNumber) < 8 {
		return "****"
	}
	return cardNumber[:4] + cardMask + cardNumber[len(cardNumber)-4:]
}
