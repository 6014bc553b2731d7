package chat

import "time"

// Session captures a transient anonymous conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Disclaimer is shown with every new session.
const Disclaimer = "Cet outil ne remplace pas un professionnel de santé. " +
	"En cas de détresse, contacte le 3114 (https://www.3114.fr) en France ou ton médecin."

// Tips helps users express themselves to the assistant.
var Tips = []string{
	"Exprime-toi librement, comme si tu parlais à un ami bienveillant",
	"Utilise des mots simples pour décrire ce que tu ressens",
	"Reviens autant de fois que nécessaire",
}

// InputPrompt is shown when a submission has no text.
const InputPrompt = "Écris quelque chose pour que je puisse te répondre"
