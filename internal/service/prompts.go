package service

import (
	"fmt"
	"strings"
)

// Prompt templates for each pipeline stage. The field labels are load
// bearing: the parser matches them verbatim, so changing a label here
// requires the matching change in parser.go.

// GenerationContext accumulates per-run state threaded through the stages.
// It is owned by a single Assemble invocation and never shared.
type GenerationContext struct {
	RecipeName string
	Country    string
	Region     string
	Character  string
	Story      string
}

const systemPrompt = "Tu es un chef cuisinier expert qui aide à générer des recettes détaillées."

const originPromptTemplate = `Pour la recette %s, donne-moi uniquement le pays d'origine dans ce format :
Pays: [nom du pays]`

const characterPromptTemplate = `Pour une recette de %s, crée un personnage de chef cuisinier et son univers avec ces détails précis :
Nom: [prénom et nom typiques du pays]
Âge: [âge]
Ville: [ville du pays]
Restaurant: [nom et description de son établissement]
Histoire personnelle: [histoire riche du chef, ses motivations, sa famille]
Caractère: [traits de personnalité qui le rendent unique]
Philosophie culinaire: [sa vision de la cuisine]
Routine quotidienne: [description d'une journée type]`

const storyPromptTemplate = `Crée une histoire immersive et détaillée autour de la préparation de %s avec notre chef comme personnage principal. L'histoire doit être une narration riche qui :

1. Décrit l'ambiance du restaurant/du lieu de préparation
2. Présente le chef et sa connexion personnelle avec cette recette
3. Explique l'importance culturelle et historique du plat
4. Décrit les ingrédients et leur signification
5. Termine sur une note émotionnelle ou culturelle

L'histoire doit inclure :
- Des descriptions sensorielles détaillées (odeurs, sons, textures)
- Des dialogues naturels et authentiques
- Des références culturelles et historiques
- Des anecdotes personnelles du chef
- Des détails sur les techniques traditionnelles

Format requis :
[Histoire narrative continue, environ 4-5 paragraphes détaillés]`

const generalPromptTemplate = `Pour la recette %s%s

Format requis :
Pays: %s
Region: [nom de la région]
Description: [Description riche et détaillée qui inclut :
- L'histoire du plat dans la région
- La signification culturelle
- Les traditions associées
- Les ingrédients emblématiques
- L'importance dans la cuisine locale]
Temps de préparation: [X] min
Temps de cuisson: [X] min
Difficulté: [facile/moyen/difficile]
Portions: [nombre]`

const ingredientsPromptTemplate = `Pour la recette %s, donne les ingrédients dans ce format précis :
[quantité] [unité] [ingrédient]
Par exemple:
300 g farine
2 unité oeufs
etc.`

const stepsPromptTemplate = `En suivant l'histoire de notre chef pour la recette %s, crée des étapes détaillées et narratives. Chaque étape doit être une scène complète et riche qui :

1. Décrit l'action technique précise avec des détails sur les gestes et les mouvements
2. Inclut des conseils du chef basés sur son expérience
3. Explique l'importance de l'étape dans la tradition culinaire
4. Ajoute des détails sensoriels (odeurs, textures, sons)
5. Intègre des anecdotes personnelles ou culturelles
6. Décrit les réactions et les émotions du chef

Format pour chaque étape (minimum 3-4 phrases par étape) :
Étape 1: [Description technique détaillée avec gestes précis] [Conseils du chef avec explications] [Importance culturelle] [Détails sensoriels] [Anecdotes personnelles]
Étape 2: [Description technique détaillée avec gestes précis] [Conseils du chef avec explications] [Importance culturelle] [Détails sensoriels] [Anecdotes personnelles]
etc.`

const playlistPromptTemplate = `Pour la recette %s, propose une playlist dans ce format précis :
Titre: [nom de la playlist]
Description: [ambiance de la playlist]
Lien: spotify:playlist:[code]`

const winePromptTemplate = `Pour la recette %s, propose un accord de vin dans ce format précis :
Nom: [nom du vin]
Description: [description de l'accord]`

// BuildOriginPrompt asks for the country of origin only.
func BuildOriginPrompt(gc *GenerationContext) string {
	return fmt.Sprintf(originPromptTemplate, gc.RecipeName)
}

// BuildCharacterPrompt invents the chef character for the resolved country.
// When the origin stage produced no country the default literal is embedded,
// never an empty slot.
func BuildCharacterPrompt(gc *GenerationContext) string {
	country := gc.Country
	if country == "" {
		country = DefaultCountry
	}
	return fmt.Sprintf(characterPromptTemplate, country)
}

// BuildStoryPrompt asks for the immersive narration around the dish.
func BuildStoryPrompt(gc *GenerationContext) string {
	return fmt.Sprintf(storyPromptTemplate, gc.RecipeName)
}

// BuildGeneralPrompt asks for the recipe metadata block. The character sheet
// is embedded verbatim when a prior stage produced one and omitted
// otherwise.
func BuildGeneralPrompt(gc *GenerationContext) string {
	context := ""
	if gc.Character != "" {
		context = ", en utilisant notre personnage et son histoire :\n" + gc.Character + "\n"
	} else {
		context = " :"
	}
	country := gc.Country
	if country == "" {
		country = DefaultCountry
	}
	return fmt.Sprintf(generalPromptTemplate, gc.RecipeName, context, country)
}

// BuildIngredientsPrompt asks for one "<qty> <unit> <name>" line per
// ingredient.
func BuildIngredientsPrompt(gc *GenerationContext) string {
	return fmt.Sprintf(ingredientsPromptTemplate, gc.RecipeName)
}

// BuildStepsPrompt asks for the narrated preparation steps, conditioned on
// the character and story when present.
func BuildStepsPrompt(gc *GenerationContext) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(stepsPromptTemplate, gc.RecipeName))
	if gc.Character != "" {
		sb.WriteString("\n\nUtilise ce personnage et son univers :\n")
		sb.WriteString(gc.Character)
	}
	if gc.Story != "" {
		sb.WriteString("\n\nL'histoire principale :\n")
		sb.WriteString(gc.Story)
	}
	return sb.String()
}

// BuildPlaylistPrompt asks for the Titre/Description/Lien block.
func BuildPlaylistPrompt(gc *GenerationContext) string {
	return fmt.Sprintf(playlistPromptTemplate, gc.RecipeName)
}

// BuildWinePrompt asks for the Nom/Description block.
func BuildWinePrompt(gc *GenerationContext) string {
	return fmt.Sprintf(winePromptTemplate, gc.RecipeName)
}
