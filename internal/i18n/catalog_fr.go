package i18n

import "golang.org/x/text/language"

const (
	domainNotificationError   = "Admin.Notifications.Error"
	domainNotificationSuccess = "Admin.Notifications.Success"
	domainCatalogFeature      = "Admin.Catalog.Feature"
	domainCatalogNotification = "Admin.Catalog.Notification"
	domainNavigationMenu      = "Admin.Navigation.Menu"
	domainGlobal              = "Admin.Global"
)

var french = []struct {
	domain, key, value string
}{
	{domainNotificationSuccess, "Successful creation", "Création réussie"},
	{domainNotificationSuccess, "Successful update", "Mise à jour réussie"},
	{domainNotificationSuccess, "Successful deletion", "Suppression réussie"},
	{domainNotificationSuccess, "The status has been successfully updated.", "Le statut a été mis à jour avec succès."},
	{domainNotificationSuccess, "Image successfully deleted.", "Image supprimée avec succès."},
	{domainNotificationError, "The object cannot be loaded (or found).", "L'objet ne peut pas être chargé (ou trouvé)."},
	{domainNotificationError, "An error occurred while deleting the object.", "Une erreur est survenue lors de la suppression de l'objet."},
	{domainNotificationError, "An error occurred while deleting this selection.", "Une erreur est survenue lors de la suppression de la sélection."},
	{domainNotificationError, "An error occurred while updating the status.", "Une erreur est survenue lors de la mise à jour du statut."},
	{domainNotificationError, "An error occurred while updating the status for an object.", "Une erreur est survenue lors de la mise à jour du statut d'un objet."},
	{domainNotificationError, "An error occurred while uploading the image.", "Une erreur est survenue lors de l'envoi de l'image."},
	{domainNotificationError, "Unable to resize one or more of your pictures.", "Impossible de redimensionner une ou plusieurs de vos images."},
	{domainNotificationError, "Max file size allowed is \"%s\" bytes.", "La taille maximale autorisée est de \"%s\" octets."},
	{domainNotificationError, "An unexpected error occurred. [%type% code %code%]", "Une erreur inattendue est survenue. [%type% code %code%]"},
	{domainNotificationError, "Access denied.", "Accès refusé."},
	{domainNotificationError, "This functionality has been disabled.", "Cette fonctionnalité a été désactivée."},
	{domainCatalogNotification, "The display of your brands is disabled on your store. Go to %sShop Parameters > General%s to edit settings.",
		"L'affichage de vos marques est désactivé sur votre boutique. Allez dans %sParamètres de la boutique > Générale%s pour modifier les paramètres."},
	{domainCatalogFeature, "Add new brand", "Ajouter une nouvelle marque"},
	{domainCatalogFeature, "Add new brand address", "Ajouter une nouvelle adresse de marque"},
	{domainCatalogFeature, "Edit brand", "Modifier la marque"},
	{domainNavigationMenu, "Brands", "Marques"},
	{domainNotificationError, "You do not have permission to edit this.", "Vous n'avez pas la permission de modifier ceci."},
	{domainNavigationMenu, "New brand", "Nouvelle marque"},
	{domainNavigationMenu, "Brand %name%", "Marque %name%"},
	{domainNavigationMenu, "Editing brand %name%", "Modification de la marque %name%"},
	{domainNavigationMenu, "New brand address", "Nouvelle adresse de marque"},
	{domainNavigationMenu, "Editing brand address", "Modification de l'adresse de marque"},
	{domainNavigationMenu, "Logs", "Journaux"},
	{domainGlobal, "ID", "ID"},
	{domainGlobal, "Logo", "Logo"},
	{domainGlobal, "Name", "Nom"},
	{domainGlobal, "Addresses", "Adresses"},
	{domainGlobal, "Products", "Produits"},
	{domainGlobal, "Enabled", "Activé"},
	{domainGlobal, "Brand", "Marque"},
	{domainGlobal, "First name", "Prénom"},
	{domainGlobal, "Last name", "Nom"},
	{domainGlobal, "Zip/Postal code", "Code postal"},
	{domainGlobal, "City", "Ville"},
	{domainGlobal, "Country", "Pays"},
	{domainGlobal, "Employee", "Employé"},
	{domainGlobal, "Message", "Message"},
	{domainGlobal, "Date", "Date"},
	{domainGlobal, "Save", "Enregistrer"},
	{domainGlobal, "Edit", "Modifier"},
	{domainGlobal, "View", "Afficher"},
	{domainGlobal, "Delete", "Supprimer"},
	{domainGlobal, "Export", "Exporter"},
	{domainGlobal, "Delete selected", "Supprimer la sélection"},
	{domainGlobal, "Enable selection", "Activer la sélection"},
	{domainGlobal, "Disable selection", "Désactiver la sélection"},
	{domainGlobal, "Show SQL query", "Afficher la requête SQL"},
	{domainGlobal, "Erase all", "Tout effacer"},
}

// LoadDefaults registers the bundled translations.
func LoadDefaults(c *Catalog) {
	for _, e := range french {
		c.Add(language.French, e.domain, e.key, e.value)
	}
}
