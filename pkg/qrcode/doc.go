// Package qrcode renders PNG QR codes, used to hand a token over to another
// device.
package qrcode
