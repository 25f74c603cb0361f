package utils

import (
	"fmt"

	"flexgym_back_end/internal/models"
)

// GenerateRefundConfirmationHTML génère le HTML de confirmation de remboursement.
func GenerateRefundConfirmationHTML(userName, itemTitle string, amount float64) string {
	if userName == "" {
		userName = "membre FlexGym"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Remboursement confirmé</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Remboursement confirmé</h2>
		<p>Bonjour %s,</p>
		<p>Votre demande de remboursement pour <strong>%s</strong> a été acceptée.</p>
		<p style="font-size: 18px;">Montant crédité sur votre portefeuille : <strong>%.2f€</strong></p>
		<p>Le crédit est immédiatement utilisable pour vos prochains achats, cours et abonnements.</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe FlexGym</strong>
		</p>
	</div>
</body>
</html>`, userName, itemTitle, amount)
}

// GeneratePaymentReceiptHTML génère le HTML du reçu de paiement.
func GeneratePaymentReceiptHTML(p models.Payment) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmation de paiement</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Paiement confirmé</h2>
		<p>Bonjour,</p>
		<p>Nous avons bien reçu votre paiement.</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">Achat</td>
				<td style="padding: 10px; border: 1px solid #ddd;"><strong>%s</strong></td>
			</tr>
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">Montant</td>
				<td style="padding: 10px; border: 1px solid #ddd;"><strong>%.2f€</strong></td>
			</tr>
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">Référence</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%s</td>
			</tr>
		</table>
		<p>Votre reçu est joint à cet e-mail.</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe FlexGym</strong>
		</p>
	</div>
</body>
</html>`, p.ItemTitle, p.Amount, p.GatewayTxnID)
}
