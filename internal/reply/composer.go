package reply

import (
	"errors"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gabrielbagon/email-classifier-api/internal/domain"
)

var (
	ErrInvalidCategory = errors.New("reply: unknown category")
	ErrInvalidSubtype  = errors.New("reply: unknown subtype")
)

// Request carries everything needed to compose a suggested reply. A zero
// SLAHours means the default window; Lang defaults to Portuguese.
type Request struct {
	Category domain.Category
	Subtype  domain.Subtype
	Entities domain.Entities
	Lang     Language
	SLAHours int
}

// Composer renders localized reply suggestions. The clock is injectable so
// the SLA deadline in a rendered reply is testable.
type Composer struct {
	now func() time.Time
}

func NewComposer() *Composer {
	return &Composer{now: time.Now}
}

// NewComposerAt builds a composer with a fixed clock.
func NewComposerAt(now func() time.Time) *Composer {
	return &Composer{now: now}
}

// Compose renders the reply for a classified message. Category and subtype
// are validated before any template lookup so an invalid pair never renders
// a half-correct reply.
func (c *Composer) Compose(req Request) (string, error) {
	if !req.Category.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}
	if !req.Subtype.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSubtype, req.Subtype)
	}

	lang := req.Lang
	if !lang.Valid() {
		lang = LangPT
	}
	hours := req.SLAHours
	if hours <= 0 {
		hours = DefaultSLAHours
	}

	greet := c.salutation(req.Entities, lang)
	sla := FormatSLA(c.now(), hours, lang)

	if req.Category == domain.CategoryProductive {
		return c.productiveReply(req.Subtype, req.Entities, lang, greet, sla), nil
	}
	return c.unproductiveReply(lang, greet), nil
}

// salutation reuses the sender's own greeting when one was extracted,
// otherwise falls back to the language default. The optional name is appended
// after a comma.
func (c *Composer) salutation(ents domain.Entities, lang Language) string {
	sal := ents.Greeting
	if sal != "" {
		sal = capitalize(sal)
	} else {
		switch lang {
		case LangEN:
			sal = "Hello"
		case LangES:
			sal = "Hola"
		default:
			sal = "Olá"
		}
	}
	if ents.Name != "" {
		return fmt.Sprintf("%s, %s.", sal, ents.Name)
	}
	return sal + "."
}

func (c *Composer) productiveReply(subtype domain.Subtype, ents domain.Entities, lang Language, greet, sla string) string {
	switch subtype {
	case domain.SubtypeStatusRequest:
		switch lang {
		case LangEN:
			if ents.TicketID != "" {
				return fmt.Sprintf("%s We received your status request. Case %s is under review; we will update you by %s.", greet, ents.TicketID, sla)
			}
			return fmt.Sprintf("%s We received your status request. Could you share the case ID to speed things up? We will update you by %s.", greet, sla)
		case LangES:
			if ents.TicketID != "" {
				return fmt.Sprintf("%s Recibimos su solicitud de estado. El caso %s está en análisis; le actualizaremos hasta %s.", greet, ents.TicketID, sla)
			}
			return fmt.Sprintf("%s Recibimos su solicitud de estado. ¿Podría indicar el ID del caso para agilizar? Le actualizaremos hasta %s.", greet, sla)
		default:
			if ents.TicketID != "" {
				return fmt.Sprintf("%s Recebemos sua solicitação de status. O protocolo %s está em análise; enviaremos atualização até %s.", greet, ents.TicketID, sla)
			}
			return fmt.Sprintf("%s Recebemos sua solicitação de status. Poderia informar o ID/protocolo para agilizar? Enviaremos atualização até %s.", greet, sla)
		}

	case domain.SubtypeSupportRequest:
		switch lang {
		case LangEN:
			return greet + " I understand the issue. To proceed, please confirm: (1) user/account, (2) approximate time of the error, (3) screenshot or error message. We'll proceed as soon as we receive it."
		case LangES:
			return greet + " Entendí el problema. Para avanzar, confirme: (1) usuario/cuenta, (2) hora aproximada del error, (3) captura o mensaje mostrado. Seguimos cuando lo recibamos."
		default:
			return greet + " Entendi o problema. Para avançarmos, confirme por favor: (1) usuário/conta, (2) horário aproximado do erro, (3) print ou mensagem exibida. Assim que recebermos, daremos sequência."
		}

	case domain.SubtypeAttachmentShare:
		switch lang {
		case LangEN:
			if ents.HasAttachment {
				return fmt.Sprintf("%s Attachment received successfully. We'll review it and get back to you by %s with next steps.", greet, sla)
			}
			return fmt.Sprintf("%s Record received. We'll review it and get back to you by %s with next steps.", greet, sla)
		case LangES:
			if ents.HasAttachment {
				return fmt.Sprintf("%s Adjunto recibido correctamente. Lo revisaremos y le responderemos hasta %s con los próximos pasos.", greet, sla)
			}
			return fmt.Sprintf("%s Registro recibido. Lo revisaremos y le responderemos hasta %s con los próximos pasos.", greet, sla)
		default:
			if ents.HasAttachment {
				return fmt.Sprintf("%s Arquivo/anexo recebido com sucesso. Vamos avaliar e retornamos até %s com os próximos passos.", greet, sla)
			}
			return fmt.Sprintf("%s Registro recebido. Vamos avaliar e retornamos até %s com os próximos passos.", greet, sla)
		}

	default: // general_question
		switch lang {
		case LangEN:
			return fmt.Sprintf("%s Thanks for your message. We are reviewing it and will reply by %s.", greet, sla)
		case LangES:
			return fmt.Sprintf("%s Gracias por su mensaje. Estamos revisando y responderemos hasta %s.", greet, sla)
		default:
			return fmt.Sprintf("%s Obrigado pela mensagem. Estamos avaliando e retornamos até %s.", greet, sla)
		}
	}
}

func (c *Composer) unproductiveReply(lang Language, greet string) string {
	switch lang {
	case LangEN:
		return greet + " Thank you for your kind message! We wish you the same."
	case LangES:
		return greet + " ¡Gracias por su mensaje y buenos deseos! Le deseamos lo mismo."
	default:
		return greet + " Agradecemos a mensagem e os bons votos! Desejamos o mesmo para você."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
